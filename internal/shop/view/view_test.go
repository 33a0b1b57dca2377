package view

import (
	"fmt"
	"testing"

	"tradepost.gg/internal/shop/catalog"
)

func bigShop(n int) *catalog.Shop {
	shop := &catalog.Shop{ID: "general", Title: "General Store"}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Item %02d", i)
		if i%3 == 0 {
			name = fmt.Sprintf("Copper Widget %02d", i)
		}
		shop.Entries = append(shop.Entries, catalog.Entry{
			ItemID:      fmt.Sprintf("ITEM_%02d", i),
			DisplayName: name,
			BuyPrice:    int64(i + 1),
			CanBuy:      true,
			MaxStack:    64,
		})
	}
	return shop
}

func TestRealIndexSurvivesFilterAndPaging(t *testing.T) {
	shop := bigShop(90)
	s := NewSession(27)
	s.Open(shop.ID)
	s.SetQuery("copper")
	s.SetPage(shop, 1)

	for _, e := range s.Visible(shop) {
		idx := RealIndex(shop, e)
		if idx < 0 {
			t.Fatalf("entry %s not resolved", e.ItemID)
		}
		if got := &shop.Entries[idx]; got != e {
			t.Fatalf("index %d points at %s, want %s", idx, got.ItemID, e.ItemID)
		}
	}
}

func TestRealIndexIgnoresViewPosition(t *testing.T) {
	shop := bigShop(90)
	s := NewSession(27)
	s.Open(shop.ID)
	s.SetPage(shop, 2)

	vis := s.Visible(shop)
	if len(vis) == 0 {
		t.Fatalf("page 2 empty")
	}
	// First visible entry on page 2 is catalog entry 54, not 0.
	if got := RealIndex(shop, vis[0]); got != 54 {
		t.Fatalf("expected full-catalog index 54, got %d", got)
	}
}

func TestRealIndexForeignEntry(t *testing.T) {
	shop := bigShop(5)
	other := catalog.Entry{ItemID: "ELSEWHERE"}
	if got := RealIndex(shop, &other); got != -1 {
		t.Fatalf("expected -1 for foreign entry, got %d", got)
	}
}

func TestSetQueryResetsPage(t *testing.T) {
	shop := bigShop(90)
	s := NewSession(27)
	s.Open(shop.ID)
	s.SetPage(shop, 3)
	s.SetQuery("widget")
	if s.Page != 0 {
		t.Fatalf("query must snap to page 0, got %d", s.Page)
	}
}

func TestSetPageClamps(t *testing.T) {
	shop := bigShop(30) // 2 pages at 27/page
	s := NewSession(27)
	s.Open(shop.ID)

	s.SetPage(shop, 99)
	if s.Page != 1 {
		t.Fatalf("expected clamp to last page 1, got %d", s.Page)
	}
	s.SetPage(shop, -5)
	if s.Page != 0 {
		t.Fatalf("expected clamp to 0, got %d", s.Page)
	}
}

func TestTotalPagesNeverZero(t *testing.T) {
	s := NewSession(27)
	empty := &catalog.Shop{ID: "empty"}
	if got := s.TotalPages(empty); got != 1 {
		t.Fatalf("empty shop: expected 1 page, got %d", got)
	}
	s.SetQuery("no such item anywhere")
	if got := s.TotalPages(bigShop(90)); got != 1 {
		t.Fatalf("fully filtered: expected 1 page, got %d", got)
	}
}

func TestFilterMatchesNameAndID(t *testing.T) {
	shop := bigShop(10)
	s := NewSession(27)
	s.Open(shop.ID)

	s.SetQuery("item_04")
	if got := len(s.Filtered(shop)); got != 1 {
		t.Fatalf("id filter: expected 1 match, got %d", got)
	}
	s.SetQuery("COPPER")
	if got := len(s.Filtered(shop)); got != 4 {
		t.Fatalf("name filter: expected 4 matches, got %d", got)
	}
}
