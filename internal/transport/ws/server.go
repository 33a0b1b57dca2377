package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tradepost.gg/internal/protocol"
	"tradepost.gg/internal/shop/catalog"
	"tradepost.gg/internal/shop/ledger"
	"tradepost.gg/internal/shop/settle"
	"tradepost.gg/internal/tuning"
)

// Server accepts player connections and drives the shop protocol over them.
// One request is processed at a time per connection; the catalog store and
// ledger are shared across all connections.
type Server struct {
	store *catalog.Store
	led   *ledger.Ledger
	proc  *settle.Processor
	tune  tuning.Tuning
	log   *log.Logger

	// OnTrade observes every settlement for audit/indexing. OnDisconnect runs
	// after a connection drops (the server ties a ledger save to it).
	OnTrade      func(playerID uuid.UUID, shopID, direction string, out settle.Outcome, balance int64)
	OnDisconnect func(playerID uuid.UUID)

	upgrader websocket.Upgrader
}

func NewServer(store *catalog.Store, led *ledger.Ledger, proc *settle.Processor, tune tuning.Tuning, logger *log.Logger) *Server {
	return &Server{
		store: store,
		led:   led,
		proc:  proc,
		tune:  tune,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sess, out := s.handshake(conn)
		if sess == nil {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				s.log.Printf("proto: undecodable message from %s: %v", sess.player, err)
				continue
			}
			if base.ProtocolVersion != protocol.Version {
				continue
			}
			sess.handle(base.Type, msg)
		}

		if s.OnDisconnect != nil {
			s.OnDisconnect(sess.player)
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (*session, chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return nil, nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil, nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return nil, nil
	}

	// Resume an existing identity when the client presents one; otherwise
	// mint a fresh player id.
	player := uuid.New()
	if hello.Auth != nil && hello.Auth.PlayerID != "" {
		if id, err := uuid.Parse(hello.Auth.PlayerID); err == nil {
			player = id
		}
	}

	out := make(chan []byte, 32)
	sess := newSession(s, player, out)

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerID:        player.String(),
		Balance:         s.led.Balance(player),
		DefaultShopID:   catalog.DefaultShopID,
	}
	shops := s.store.All()
	for _, sh := range shops {
		welcome.Shops = append(welcome.Shops, protocol.ShopRef{ShopID: sh.ID, Title: sh.Title, Entries: len(sh.Entries)})
	}
	if err := writeJSON(conn, welcome); err != nil {
		return nil, nil
	}
	for _, sh := range shops {
		if err := writeJSON(conn, catalogMsg(sh)); err != nil {
			return nil, nil
		}
	}

	return sess, out
}

func catalogMsg(sh *catalog.Shop) protocol.CatalogMsg {
	m := protocol.CatalogMsg{
		Type:            protocol.TypeCatalog,
		ProtocolVersion: protocol.Version,
		ShopID:          sh.ID,
		Title:           sh.Title,
		Digest:          sh.Digest(),
		Entries:         make([]protocol.EntryDef, 0, len(sh.Entries)),
	}
	for i := range sh.Entries {
		m.Entries = append(m.Entries, entryDef(&sh.Entries[i]))
	}
	return m
}

func entryDef(e *catalog.Entry) protocol.EntryDef {
	return protocol.EntryDef{
		ItemID:      e.ItemID,
		DisplayName: e.DisplayName,
		BuyPrice:    e.BuyPrice,
		SellPrice:   e.SellPrice,
		CanBuy:      e.CanBuy,
		CanSell:     e.CanSell,
		MaxStack:    e.MaxStack,
		Attachments: e.Attachments,
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
