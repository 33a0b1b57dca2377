// Package view tracks per-connection browsing state: which shop is open,
// which page, and the active search filter. Its one hard job is index
// stability: translating what the filtered, paginated view shows back into
// the full-catalog index the wire protocol carries.
package view

import (
	"strings"

	"tradepost.gg/internal/shop/catalog"
)

// Session is owned by a single connection and never shared.
type Session struct {
	ShopID string
	Page   int
	Query  string

	PerPage int
}

func NewSession(perPage int) *Session {
	return &Session{PerPage: perPage}
}

// Open points the session at a shop and resets page and filter.
func (s *Session) Open(shopID string) {
	s.ShopID = shopID
	s.Page = 0
	s.Query = ""
}

// SetQuery installs a search filter and snaps back to the first page.
func (s *Session) SetQuery(q string) {
	s.Query = strings.TrimSpace(q)
	s.Page = 0
}

// SetPage clamps into [0, TotalPages-1] for the current filter.
func (s *Session) SetPage(shop *catalog.Shop, page int) {
	maxPage := s.TotalPages(shop) - 1
	if page > maxPage {
		page = maxPage
	}
	if page < 0 {
		page = 0
	}
	s.Page = page
}

// Filtered returns the entries matching the active query, in catalog order.
func (s *Session) Filtered(shop *catalog.Shop) []*catalog.Entry {
	if shop == nil {
		return nil
	}
	out := make([]*catalog.Entry, 0, len(shop.Entries))
	q := strings.ToLower(s.Query)
	for i := range shop.Entries {
		e := &shop.Entries[i]
		if q == "" ||
			strings.Contains(strings.ToLower(e.DisplayName), q) ||
			strings.Contains(strings.ToLower(e.ItemID), q) {
			out = append(out, e)
		}
	}
	return out
}

// Visible returns the current page of the filtered entries.
func (s *Session) Visible(shop *catalog.Shop) []*catalog.Entry {
	filtered := s.Filtered(shop)
	start := s.Page * s.PerPage
	if start >= len(filtered) {
		return nil
	}
	end := min(start+s.PerPage, len(filtered))
	return filtered[start:end]
}

// TotalPages is at least 1, even for an empty or fully filtered-out shop.
func (s *Session) TotalPages(shop *catalog.Shop) int {
	n := len(s.Filtered(shop))
	if n == 0 {
		return 1
	}
	return (n + s.PerPage - 1) / s.PerPage
}

// RealIndex maps an entry shown by the view back to its index in the full,
// unfiltered catalog. The wire protocol's entry_index is defined against the
// full catalog: sending a filtered or paginated position instead would buy
// the wrong item whenever a filter or page is active.
func RealIndex(shop *catalog.Shop, entry *catalog.Entry) int {
	if shop == nil || entry == nil {
		return -1
	}
	for i := range shop.Entries {
		if &shop.Entries[i] == entry {
			return i
		}
	}
	return -1
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
