// Package inventory holds the server-side player inventories settlements
// mutate: fixed slot grids of item stacks.
package inventory

import (
	"sync"

	"github.com/google/uuid"

	"tradepost.gg/internal/shop/attach"
)

// SlotCount matches the player grid the original game exposes (27 main + 9 hotbar).
const SlotCount = 36

// Item is one produced item instance. Purchased attachments land here: the
// rich display name on Name, everything else on Data.
type Item struct {
	ID   string
	Name *attach.RichText
	Data map[string]string
}

// Plain reports whether the item carries no custom data, so it can merge into
// any stack of the same type.
func (it Item) Plain() bool {
	return it.Name == nil && len(it.Data) == 0
}

// Access is what the settlement engine needs from an inventory.
type Access interface {
	// Insert deposits qty units of item, honoring maxStack per slot. It is
	// all or nothing: when the grid cannot take the full quantity it takes
	// none and returns false.
	Insert(player uuid.UUID, item Item, qty, maxStack int) bool
	// CountHeld sums every stack of the item type across the grid.
	CountHeld(player uuid.UUID, itemID string) int
	// RemoveUpTo decrements stacks of the item type left to right until qty
	// units are gone, returning how many it actually removed.
	RemoveUpTo(player uuid.UUID, itemID string, qty int) int
}

type stack struct {
	item  Item
	count int
}

// Stacks is the in-memory Access implementation the server runs with.
type Stacks struct {
	mu    sync.Mutex
	grids map[uuid.UUID]*[SlotCount]*stack
}

func NewStacks() *Stacks {
	return &Stacks{grids: map[uuid.UUID]*[SlotCount]*stack{}}
}

func (s *Stacks) grid(player uuid.UUID) *[SlotCount]*stack {
	g, ok := s.grids[player]
	if !ok {
		g = &[SlotCount]*stack{}
		s.grids[player] = g
	}
	return g
}

func (s *Stacks) Insert(player uuid.UUID, item Item, qty, maxStack int) bool {
	if qty <= 0 || maxStack <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.grid(player)

	// Plan first: merging into existing stacks of the same plain item, then
	// empty slots. Only commit when the full quantity fits.
	type move struct {
		slot int
		n    int
	}
	var moves []move
	remaining := qty
	if item.Plain() {
		for i, st := range g {
			if remaining == 0 {
				break
			}
			if st == nil || st.item.ID != item.ID || !st.item.Plain() {
				continue
			}
			room := maxStack - st.count
			if room <= 0 {
				continue
			}
			n := min(room, remaining)
			moves = append(moves, move{slot: i, n: n})
			remaining -= n
		}
	}
	for i, st := range g {
		if remaining == 0 {
			break
		}
		if st != nil {
			continue
		}
		n := min(maxStack, remaining)
		moves = append(moves, move{slot: i, n: n})
		remaining -= n
	}
	if remaining > 0 {
		return false
	}
	for _, m := range moves {
		if g[m.slot] == nil {
			g[m.slot] = &stack{item: item}
		}
		g[m.slot].count += m.n
	}
	return true
}

func (s *Stacks) CountHeld(player uuid.UUID, itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grids[player]
	if !ok {
		return 0
	}
	total := 0
	for _, st := range g {
		if st != nil && st.item.ID == itemID {
			total += st.count
		}
	}
	return total
}

func (s *Stacks) RemoveUpTo(player uuid.UUID, itemID string, qty int) int {
	if qty <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grids[player]
	if !ok {
		return 0
	}
	removed := 0
	for i, st := range g {
		if removed == qty {
			break
		}
		if st == nil || st.item.ID != itemID {
			continue
		}
		n := min(st.count, qty-removed)
		st.count -= n
		removed += n
		if st.count == 0 {
			g[i] = nil
		}
	}
	return removed
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
