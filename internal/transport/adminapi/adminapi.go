// Package adminapi exposes the operator surface over HTTP: catalog listing
// and reload, and ledger balance administration. It is meant to be bound to a
// local or otherwise protected listener.
package adminapi

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"tradepost.gg/internal/shop/catalog"
	"tradepost.gg/internal/shop/ledger"
)

type API struct {
	Store  *catalog.Store
	Ledger *ledger.Ledger
	Log    *log.Logger

	// OnReload runs after a successful catalog reload (the server refreshes
	// the shop index rows with it).
	OnReload func()
}

func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/v1/shops", a.localOnly(a.handleShops))
	mux.HandleFunc("/admin/v1/reload", a.localOnly(a.handleReload))
	mux.HandleFunc("/admin/v1/balance", a.localOnly(a.handleBalance))
	mux.HandleFunc("/admin/v1/balance/add", a.localOnly(a.handleBalanceAdd))
	mux.HandleFunc("/admin/v1/balance/remove", a.localOnly(a.handleBalanceRemove))
	mux.HandleFunc("/admin/v1/pay", a.localOnly(a.handlePay))
}

// localOnly rejects requests from non-loopback peers. The admin surface can
// mint currency, so it must never be reachable from the game-facing network
// even when registered on the shared listener.
func (a *API) localOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			a.Log.Printf("admin: forbidden from %s: %s %s", r.RemoteAddr, r.Method, r.URL.Path)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

type shopRow struct {
	ShopID  string `json:"shop_id"`
	Title   string `json:"title"`
	Entries int    `json:"entries"`
}

func (a *API) handleShops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	var rows []shopRow
	for _, sh := range a.Store.All() {
		rows = append(rows, shopRow{ShopID: sh.ID, Title: sh.Title, Entries: len(sh.Entries)})
	}
	writeOK(w, map[string]any{"shops": rows})
}

func (a *API) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	if err := a.Store.Reload(); err != nil {
		a.Log.Printf("ERROR: reload shops: %v", err)
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if a.OnReload != nil {
		a.OnReload()
	}
	writeOK(w, map[string]any{"shops": a.Store.IDs()})
}

func (a *API) handleBalance(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		player, ok := parsePlayer(w, r.URL.Query().Get("player"))
		if !ok {
			return
		}
		writeOK(w, map[string]any{"player": player.String(), "balance": a.Ledger.Balance(player)})
	case http.MethodPost:
		req, ok := decodeAmountReq(w, r)
		if !ok {
			return
		}
		a.Ledger.SetBalance(req.player, req.Amount)
		writeOK(w, map[string]any{"player": req.player.String(), "balance": a.Ledger.Balance(req.player)})
	default:
		httpError(w, http.StatusMethodNotAllowed, "GET or POST")
	}
}

func (a *API) handleBalanceAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	req, ok := decodeAmountReq(w, r)
	if !ok {
		return
	}
	if req.Amount < 0 {
		httpError(w, http.StatusBadRequest, "amount must be >= 0")
		return
	}
	bal := a.Ledger.AddBalance(req.player, req.Amount)
	writeOK(w, map[string]any{"player": req.player.String(), "balance": bal})
}

func (a *API) handleBalanceRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	req, ok := decodeAmountReq(w, r)
	if !ok {
		return
	}
	if req.Amount < 0 {
		httpError(w, http.StatusBadRequest, "amount must be >= 0")
		return
	}
	if !a.Ledger.RemoveBalance(req.player, req.Amount) {
		httpError(w, http.StatusConflict, "insufficient funds")
		return
	}
	writeOK(w, map[string]any{"player": req.player.String(), "balance": a.Ledger.Balance(req.player)})
}

func (a *API) handlePay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var body struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, "bad json")
		return
	}
	from, ok := parsePlayer(w, body.From)
	if !ok {
		return
	}
	to, ok := parsePlayer(w, body.To)
	if !ok {
		return
	}
	if body.Amount <= 0 {
		httpError(w, http.StatusBadRequest, "amount must be > 0")
		return
	}
	if from == to {
		httpError(w, http.StatusBadRequest, "cannot pay yourself")
		return
	}
	if !a.Ledger.Transfer(from, to, body.Amount) {
		httpError(w, http.StatusConflict, "insufficient funds")
		return
	}
	writeOK(w, map[string]any{
		"from":         from.String(),
		"to":           to.String(),
		"amount":       body.Amount,
		"from_balance": a.Ledger.Balance(from),
		"to_balance":   a.Ledger.Balance(to),
	})
}

type amountReq struct {
	player uuid.UUID
	Amount int64
}

func decodeAmountReq(w http.ResponseWriter, r *http.Request) (amountReq, bool) {
	var body struct {
		Player string `json:"player"`
		Amount int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, "bad json")
		return amountReq{}, false
	}
	player, ok := parsePlayer(w, body.Player)
	if !ok {
		return amountReq{}, false
	}
	return amountReq{player: player, Amount: body.Amount}, true
}

func parsePlayer(w http.ResponseWriter, s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		httpError(w, http.StatusBadRequest, "bad player id")
		return uuid.UUID{}, false
	}
	return id, true
}

func writeOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
