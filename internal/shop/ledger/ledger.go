// Package ledger is the authoritative per-player currency store. Every
// mutation is an add or a checked subtract; balances never go negative.
package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// Persistence loads and saves the full balance map. The ledger does not care
// about the format; the in-memory map stays authoritative if a save fails.
type Persistence interface {
	LoadAll() (map[uuid.UUID]int64, error)
	SaveAll(map[uuid.UUID]int64) error
}

type Ledger struct {
	mu       sync.RWMutex
	balances map[uuid.UUID]int64
}

func New() *Ledger {
	return &Ledger{balances: map[uuid.UUID]int64{}}
}

// Balance returns 0 for players never seen before.
func (l *Ledger) Balance(player uuid.UUID) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[player]
}

// SetBalance clamps amount to >= 0.
func (l *Ledger) SetBalance(player uuid.UUID, amount int64) {
	if amount < 0 {
		amount = 0
	}
	l.mu.Lock()
	l.balances[player] = amount
	l.mu.Unlock()
}

// AddBalance credits amount (>= 0; negative is ignored) and returns the new
// balance.
func (l *Ledger) AddBalance(player uuid.UUID, amount int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount > 0 {
		l.balances[player] += amount
	}
	return l.balances[player]
}

// RemoveBalance debits amount if the player holds at least that much. The
// check and the subtract run under one lock, so concurrent removals for the
// same player cannot race to a negative balance.
func (l *Ledger) RemoveBalance(player uuid.UUID, amount int64) bool {
	if amount < 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.balances[player]
	if cur < amount {
		return false
	}
	l.balances[player] = cur - amount
	return true
}

// Transfer moves amount from one player to another under a single lock: the
// debit and the credit commit together or not at all.
func (l *Ledger) Transfer(from, to uuid.UUID, amount int64) bool {
	if amount <= 0 || from == to {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.balances[from]
	if cur < amount {
		return false
	}
	l.balances[from] = cur - amount
	l.balances[to] += amount
	return true
}

// Snapshot copies the balance map for persistence writers. Zero-balance
// entries are kept: a player once seen stays in the ledger.
func (l *Ledger) Snapshot() map[uuid.UUID]int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[uuid.UUID]int64, len(l.balances))
	for id, bal := range l.balances {
		out[id] = bal
	}
	return out
}

// Replace swaps in a freshly loaded balance map.
func (l *Ledger) Replace(balances map[uuid.UUID]int64) {
	next := make(map[uuid.UUID]int64, len(balances))
	for id, bal := range balances {
		if bal < 0 {
			bal = 0
		}
		next[id] = bal
	}
	l.mu.Lock()
	l.balances = next
	l.mu.Unlock()
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.balances)
}
