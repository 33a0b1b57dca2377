// Package settle executes the validate-then-mutate sequence for one trade
// request. Business failures come back as Outcomes, never as errors, and a
// trade either commits both the currency and the inventory mutation or
// neither.
package settle

import (
	"log"

	"github.com/google/uuid"

	"tradepost.gg/internal/protocol"
	"tradepost.gg/internal/shop/attach"
	"tradepost.gg/internal/shop/catalog"
	"tradepost.gg/internal/shop/inventory"
	"tradepost.gg/internal/shop/ledger"
)

// Outcome reports one settlement: committed or rejected with a reason code.
type Outcome struct {
	OK       bool
	Code     string // E_* reason when not OK
	Quantity int    // resolved quantity
	Total    int64  // total price moved (0 on rejection)
	Entry    *catalog.Entry
}

func rejected(code string, entry *catalog.Entry) Outcome {
	return Outcome{Code: code, Entry: entry}
}

type Processor struct {
	Ledger    *ledger.Ledger
	Inventory inventory.Access
	// BulkMax is what the max-quantity sentinel resolves to on buy, and the
	// cap on what it resolves to on sell.
	BulkMax int
	Log     *log.Logger
}

// Buy settles a purchase of the entry at the full-catalog index. The
// inventory insert runs before the debit: a full inventory rejects the trade
// with no currency charged, and after the funds check the debit cannot fail.
func (p *Processor) Buy(player uuid.UUID, shop *catalog.Shop, index int, qty int32) Outcome {
	entry, ok := shop.Entry(index)
	if !ok {
		return rejected(protocol.ErrUnknownEntry, nil)
	}
	if !entry.CanBuy {
		return rejected(protocol.ErrNotBuyable, entry)
	}

	n := p.resolveBuyQuantity(qty)
	if n <= 0 {
		return rejected(protocol.ErrProtoBadRequest, entry)
	}

	total := entry.BuyPrice * int64(n)
	if p.Ledger.Balance(player) < total {
		return rejected(protocol.ErrInsufficientFunds, entry)
	}

	item := p.buildItem(entry)
	if !p.Inventory.Insert(player, item, n, entry.MaxStack) {
		return rejected(protocol.ErrInventoryFull, entry)
	}

	if !p.Ledger.RemoveBalance(player, total) {
		// Unreachable while the ledger serializes same-player mutations;
		// claw the items back rather than give them away.
		p.Inventory.RemoveUpTo(player, entry.ItemID, n)
		p.Log.Printf("ERROR: debit failed after funds check: player=%s item=%s total=%d", player, entry.ItemID, total)
		return rejected(protocol.ErrInternal, entry)
	}

	return Outcome{OK: true, Quantity: n, Total: total, Entry: entry}
}

// Sell settles a sale of the entry at the full-catalog index. The max
// sentinel resolves to min(BulkMax, held); holding nothing resolves to 0 and
// is rejected as insufficient stock, never treated as a silent success.
func (p *Processor) Sell(player uuid.UUID, shop *catalog.Shop, index int, qty int32) Outcome {
	entry, ok := shop.Entry(index)
	if !ok {
		return rejected(protocol.ErrUnknownEntry, nil)
	}
	if !entry.CanSell {
		return rejected(protocol.ErrNotSellable, entry)
	}

	held := p.Inventory.CountHeld(player, entry.ItemID)
	var n int
	switch {
	case qty == protocol.QuantityMax:
		n = min(p.BulkMax, held)
	case qty > 0:
		n = int(qty)
	default:
		return rejected(protocol.ErrProtoBadRequest, entry)
	}
	if held < n || n <= 0 {
		return rejected(protocol.ErrInsufficientStock, entry)
	}

	removed := p.Inventory.RemoveUpTo(player, entry.ItemID, n)
	if removed < n {
		// Holdings changed between the count and the removal; settle what
		// actually came out.
		n = removed
	}
	if n <= 0 {
		return rejected(protocol.ErrInsufficientStock, entry)
	}

	total := entry.SellPrice * int64(n)
	p.Ledger.AddBalance(player, total)
	return Outcome{OK: true, Quantity: n, Total: total, Entry: entry}
}

func (p *Processor) resolveBuyQuantity(qty int32) int {
	if qty == protocol.QuantityMax {
		return p.BulkMax
	}
	if qty > 0 {
		return int(qty)
	}
	return 0
}

// buildItem constructs the produced instance and applies the entry's
// attachments: the reserved rich-name key is parsed as structured text, all
// other keys copy through opaque. A malformed rich name is logged and skipped;
// the item is still produced, as with any other attachment the game cannot
// interpret.
func (p *Processor) buildItem(entry *catalog.Entry) inventory.Item {
	item := inventory.Item{ID: entry.ItemID}
	if len(entry.Attachments) == 0 {
		return item
	}
	for k, v := range entry.Attachments {
		a, err := attach.Decode(k, v)
		if err != nil {
			p.Log.Printf("WARN: attachment %s on %s: %v", k, entry.ItemID, err)
			continue
		}
		switch a.Kind {
		case attach.KindRichText:
			item.Name = a.Name
		default:
			if item.Data == nil {
				item.Data = make(map[string]string, len(entry.Attachments))
			}
			item.Data[a.Key] = a.Value
		}
	}
	return item
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
