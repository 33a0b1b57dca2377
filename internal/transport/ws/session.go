package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tradepost.gg/internal/protocol"
	"tradepost.gg/internal/shop/catalog"
	"tradepost.gg/internal/shop/settle"
	"tradepost.gg/internal/shop/view"
)

// session is one connection's server-side state: the player identity, the
// browsing view, and the trade rate limiter. It is only touched from that
// connection's reader loop.
type session struct {
	srv    *Server
	player uuid.UUID
	out    chan []byte
	view   *view.Session

	windowStart time.Time
	windowCount int
}

func newSession(s *Server, player uuid.UUID, out chan []byte) *session {
	v := view.NewSession(s.tune.ItemsPerPage)
	v.Open(catalog.DefaultShopID)
	return &session{srv: s, player: player, out: out, view: v}
}

func (c *session) handle(msgType string, raw []byte) {
	switch msgType {
	case protocol.TypeOpenShop:
		var m protocol.OpenShopMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			c.rejectMalformed(msgType, err)
			return
		}
		c.openShop(m.ShopID)
	case protocol.TypeSetPage:
		var m protocol.SetPageMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			c.rejectMalformed(msgType, err)
			return
		}
		c.setPage(m.Page)
	case protocol.TypeSearch:
		var m protocol.SearchMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			c.rejectMalformed(msgType, err)
			return
		}
		c.search(m.Query)
	case protocol.TypeBuy:
		var m protocol.BuyMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			c.rejectMalformed(msgType, err)
			return
		}
		c.trade("buy", m.EntryIndex, m.Quantity)
	case protocol.TypeSell:
		var m protocol.SellMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			c.rejectMalformed(msgType, err)
			return
		}
		c.trade("sell", m.EntryIndex, m.Quantity)
	case protocol.TypeBalance:
		c.send(protocol.BalanceMsg{
			Type:            protocol.TypeBalance,
			ProtocolVersion: protocol.Version,
			Balance:         c.srv.led.Balance(c.player),
		})
	}
}

// rejectMalformed handles a payload whose type routed but whose body did not
// unmarshal. The client hears about it, the same as an undecodable frame.
func (c *session) rejectMalformed(msgType string, err error) {
	c.srv.log.Printf("proto: malformed %s payload from %s: %v", msgType, c.player, err)
	c.sendResult(protocol.ResultMsg{Code: protocol.ErrProtoBadRequest, Message: "malformed payload"})
}

func (c *session) openShop(shopID string) {
	if shopID == "" {
		shopID = catalog.DefaultShopID
	}
	sh, ok := c.srv.store.Get(shopID)
	if !ok {
		c.sendResult(protocol.ResultMsg{Code: protocol.ErrNoShop, Message: "shop not found: " + shopID})
		return
	}
	c.view.Open(shopID)
	c.sendView(sh)
}

func (c *session) setPage(page int) {
	sh, ok := c.srv.store.Get(c.view.ShopID)
	if !ok {
		c.sendResult(protocol.ResultMsg{Code: protocol.ErrNoShop, Message: "no shop open"})
		return
	}
	c.view.SetPage(sh, page)
	c.sendView(sh)
}

func (c *session) search(query string) {
	sh, ok := c.srv.store.Get(c.view.ShopID)
	if !ok {
		c.sendResult(protocol.ResultMsg{Code: protocol.ErrNoShop, Message: "no shop open"})
		return
	}
	c.view.SetQuery(query)
	c.sendView(sh)
}

// trade runs one settlement. The shop snapshot is captured once up front: a
// concurrent reload cannot change prices or eligibility mid-settlement.
func (c *session) trade(direction string, index, qty int32) {
	if !protocol.ValidQuantity(qty) || index < 0 {
		c.srv.log.Printf("proto: bad %s request from %s: index=%d qty=%d", direction, c.player, index, qty)
		c.sendResult(protocol.ResultMsg{Code: protocol.ErrProtoBadRequest, Message: "bad index or quantity"})
		return
	}
	if !c.allowTrade() {
		c.sendResult(protocol.ResultMsg{Code: protocol.ErrRateLimit, Message: "too many trade requests"})
		return
	}
	sh, ok := c.srv.store.Get(c.view.ShopID)
	if !ok {
		c.sendResult(protocol.ResultMsg{Code: protocol.ErrNoShop, Message: "no shop open"})
		return
	}

	var out settle.Outcome
	if direction == "buy" {
		out = c.srv.proc.Buy(c.player, sh, int(index), qty)
	} else {
		out = c.srv.proc.Sell(c.player, sh, int(index), qty)
	}

	balance := c.srv.led.Balance(c.player)
	if c.srv.OnTrade != nil {
		c.srv.OnTrade(c.player, sh.ID, direction, out, balance)
	}

	res := protocol.ResultMsg{
		OK:       out.OK,
		Code:     out.Code,
		Quantity: out.Quantity,
		Total:    out.Total,
		Message:  resultMessage(direction, out),
	}
	c.sendResultBalance(res, balance)
}

func resultMessage(direction string, out settle.Outcome) string {
	name := ""
	if out.Entry != nil {
		name = out.Entry.DisplayName
	}
	if out.OK {
		if direction == "buy" {
			return fmt.Sprintf("Bought %dx %s for %d", out.Quantity, name, out.Total)
		}
		return fmt.Sprintf("Sold %dx %s for %d", out.Quantity, name, out.Total)
	}
	switch out.Code {
	case protocol.ErrUnknownEntry:
		return "No such item"
	case protocol.ErrNotBuyable:
		return "This item cannot be bought"
	case protocol.ErrNotSellable:
		return "This item cannot be sold"
	case protocol.ErrInsufficientFunds:
		return "Insufficient funds"
	case protocol.ErrInsufficientStock:
		if name != "" {
			return "You do not hold enough " + name
		}
		return "You do not hold enough of this item"
	case protocol.ErrInventoryFull:
		return "Inventory full"
	default:
		return "Trade rejected"
	}
}

// allowTrade is a sliding-window limit on BUY/SELL per connection.
func (c *session) allowTrade() bool {
	rl := c.srv.tune.RateLimits
	if rl.TradeMax <= 0 || rl.TradeWindowMs <= 0 {
		return true
	}
	now := time.Now()
	window := time.Duration(rl.TradeWindowMs) * time.Millisecond
	if now.Sub(c.windowStart) >= window {
		c.windowStart = now
		c.windowCount = 0
	}
	c.windowCount++
	return c.windowCount <= rl.TradeMax
}

func (c *session) sendView(sh *catalog.Shop) {
	m := protocol.ViewMsg{
		Type:            protocol.TypeView,
		ProtocolVersion: protocol.Version,
		ShopID:          sh.ID,
		Title:           sh.Title,
		Page:            c.view.Page,
		TotalPages:      c.view.TotalPages(sh),
		Query:           c.view.Query,
	}
	for _, e := range c.view.Visible(sh) {
		m.Entries = append(m.Entries, protocol.ViewEntry{
			Index: view.RealIndex(sh, e),
			Entry: entryDef(e),
		})
	}
	c.send(m)
}

func (c *session) sendResult(res protocol.ResultMsg) {
	c.sendResultBalance(res, c.srv.led.Balance(c.player))
}

func (c *session) sendResultBalance(res protocol.ResultMsg, balance int64) {
	res.Type = protocol.TypeResult
	res.ProtocolVersion = protocol.Version
	res.Balance = balance
	c.send(res)
}

func (c *session) send(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.out <- b:
	default:
		// Slow consumer; drop rather than stall the reader loop.
	}
}
