package catalog

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Persistence is the external source shop definitions come from and are
// written back to. Implementations report malformed definitions themselves
// and return only the ones that parsed.
type Persistence interface {
	LoadAll() ([]*Shop, error)
	Save(*Shop) error
}

// Store owns the id -> Shop mapping. Reads take a snapshot pointer; Reload
// swaps the whole map atomically so readers never observe a partial update.
type Store struct {
	persist Persistence
	log     *log.Logger

	mu    sync.RWMutex
	shops map[string]*Shop
}

func NewStore(p Persistence, logger *log.Logger) *Store {
	return &Store{
		persist: p,
		log:     logger,
		shops:   map[string]*Shop{},
	}
}

// Load discovers shop definitions from persistence. When none exist the
// built-in example shops are installed and persisted back immediately so
// subsequent loads are deterministic.
func (s *Store) Load() error {
	shops, err := s.persist.LoadAll()
	if err != nil {
		return fmt.Errorf("load shops: %w", err)
	}
	if len(shops) == 0 {
		shops = DefaultShops()
		for _, sh := range shops {
			if err := s.persist.Save(sh); err != nil {
				s.log.Printf("WARN: save default shop %s: %v", sh.ID, err)
			}
		}
		s.log.Printf("no shops found, installed %d default shops", len(shops))
	}

	next := make(map[string]*Shop, len(shops))
	for _, sh := range shops {
		if sh.ID == "" {
			continue
		}
		if _, dup := next[sh.ID]; dup {
			s.log.Printf("WARN: duplicate shop id %q, keeping first", sh.ID)
			continue
		}
		next[sh.ID] = sh
	}

	s.mu.Lock()
	s.shops = next
	s.mu.Unlock()
	return nil
}

// Reload re-runs Load. In-flight settlements that captured a *Shop before the
// swap complete against the old snapshot.
func (s *Store) Reload() error { return s.Load() }

func (s *Store) Get(id string) (*Shop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shops[id]
	return sh, ok
}

func (s *Store) Default() (*Shop, bool) {
	return s.Get(DefaultShopID)
}

// IDs returns all shop ids, sorted.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.shops))
	for id := range s.shops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns the current shops sorted by id.
func (s *Store) All() []*Shop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Shop, 0, len(s.shops))
	for _, sh := range s.shops {
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
