// Package catalog owns the shop data model: named, ordered lists of tradeable
// entries. Entry order is significant: it defines the stable indices the wire
// protocol references.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// DefaultShopID is the well-known id resolved when a client opens a shop
// without naming one.
const DefaultShopID = "general"

// Shop is one store front. Published Shop values are immutable: reload swaps
// whole pointers, never edits entries in place, so a settlement that captured
// a *Shop keeps a consistent snapshot.
type Shop struct {
	ID      string  `json:"-"`
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Entry is one tradeable item definition.
type Entry struct {
	ItemID      string            `json:"item_id"`
	DisplayName string            `json:"display_name"`
	BuyPrice    int64             `json:"buy_price"`
	SellPrice   int64             `json:"sell_price"`
	CanBuy      bool              `json:"can_buy"`
	CanSell     bool              `json:"can_sell"`
	MaxStack    int               `json:"max_stack"`
	Attachments map[string]string `json:"attachments,omitempty"`
}

// Entry returns the entry at the full-catalog index i.
func (s *Shop) Entry(i int) (*Entry, bool) {
	if s == nil || i < 0 || i >= len(s.Entries) {
		return nil, false
	}
	return &s.Entries[i], true
}

// Digest is a sha256 hex over the marshalled entry list, sent alongside the
// catalog so clients can detect drift.
func (s *Shop) Digest() string {
	b, _ := json.Marshal(s.Entries)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
