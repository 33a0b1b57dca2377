package indexdb

import (
	"path/filepath"
	"testing"
	"time"

	"tradepost.gg/internal/shop/catalog"
)

func openTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "index", "tradepost.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func countRows(t *testing.T, s *SQLiteIndex, table string) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func waitForRows(t *testing.T, s *SQLiteIndex, table string, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if countRows(t, s, table) == want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("%s: expected %d rows, got %d", table, want, countRows(t, s, table))
}

func TestWriteTradeFlushes(t *testing.T) {
	s := openTestIndex(t)

	for i := 0; i < 3; i++ {
		s.WriteTrade(TradeRow{
			PlayerID:  "p1",
			ShopID:    "general",
			ItemID:    "STONE",
			Direction: "buy",
			OK:        true,
			Quantity:  1,
			Total:     100,
			Balance:   int64(900 - i*100),
		})
	}
	s.WriteTrade(TradeRow{PlayerID: "p1", ShopID: "general", Direction: "buy", Code: "E_INSUFFICIENT_FUNDS"})

	waitForRows(t, s, "trades", 4)

	var okCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM trades WHERE ok=1").Scan(&okCount); err != nil {
		t.Fatal(err)
	}
	if okCount != 3 {
		t.Fatalf("expected 3 committed trades, got %d", okCount)
	}
}

func TestWriteBalanceUpserts(t *testing.T) {
	s := openTestIndex(t)

	s.WriteBalance("p1", 100)
	waitForRows(t, s, "balances", 1)
	s.WriteBalance("p1", 250)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var bal int64
		if err := s.db.QueryRow("SELECT balance FROM balances WHERE player_id='p1'").Scan(&bal); err != nil {
			t.Fatal(err)
		}
		if bal == 250 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("balance upsert not applied")
}

func TestUpsertShops(t *testing.T) {
	s := openTestIndex(t)

	shops := []*catalog.Shop{
		{ID: "general", Title: "General Store", Entries: []catalog.Entry{{ItemID: "STONE", DisplayName: "Stone", BuyPrice: 100, CanBuy: true, MaxStack: 64}}},
		{ID: "machines", Title: "Machine Parts"},
	}
	if err := s.UpsertShops(shops); err != nil {
		t.Fatal(err)
	}
	if got := countRows(t, s, "shops"); got != 2 {
		t.Fatalf("expected 2 shop rows, got %d", got)
	}

	// Upsert again with a changed title; no duplicate rows.
	shops[1].Title = "Machinery"
	if err := s.UpsertShops(shops); err != nil {
		t.Fatal(err)
	}
	if got := countRows(t, s, "shops"); got != 2 {
		t.Fatalf("expected 2 shop rows after upsert, got %d", got)
	}
	var title string
	if err := s.db.QueryRow("SELECT title FROM shops WHERE shop_id='machines'").Scan(&title); err != nil {
		t.Fatal(err)
	}
	if title != "Machinery" {
		t.Fatalf("title not replaced: %q", title)
	}
}

func TestNilAndClosedWritesAreNoops(t *testing.T) {
	var nilIdx *SQLiteIndex
	nilIdx.WriteTrade(TradeRow{PlayerID: "p1"})
	nilIdx.WriteBalance("p1", 1)
	if err := nilIdx.UpsertShops(nil); err != nil {
		t.Fatal(err)
	}

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "tradepost.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	s.WriteTrade(TradeRow{PlayerID: "p1"})
	s.WriteBalance("p1", 1)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
