// Package indexdb maintains a SQLite read-model of settlements and balances
// for offline queries. It is strictly secondary: writes are queued to a
// single writer goroutine and dropped if the indexer falls behind, and a
// failure here never affects a trade.
package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"tradepost.gg/internal/shop/catalog"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqTrade reqKind = iota + 1
	reqBalance
)

type req struct {
	kind reqKind

	trade   TradeRow
	balance balanceRow
}

// TradeRow is one settlement outcome, committed or rejected.
type TradeRow struct {
	TS        string
	PlayerID  string
	ShopID    string
	ItemID    string
	Direction string
	OK        bool
	Code      string
	Quantity  int
	Total     int64
	Balance   int64
}

type balanceRow struct {
	PlayerID string
	Balance  int64
	TS       string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// High buffer: trade bursts (bulk buys from many connections) must
		// not stall settlement.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads. NORMAL is a decent
	// durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS shops (
			shop_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trades (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts TEXT NOT NULL,
			player_id TEXT NOT NULL,
			shop_id TEXT NOT NULL,
			item_id TEXT,
			direction TEXT NOT NULL,
			ok INTEGER NOT NULL,
			code TEXT,
			quantity INTEGER NOT NULL,
			total INTEGER NOT NULL,
			balance INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_player_ts ON trades(player_id, ts);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_shop_ts ON trades(shop_id, ts);`,
		`CREATE TABLE IF NOT EXISTS balances (
			player_id TEXT PRIMARY KEY,
			balance INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// WriteTrade queues one settlement row. Non-blocking: dropped when the
// indexer falls behind, the JSONL trade log remains the source of truth.
func (s *SQLiteIndex) WriteTrade(row TradeRow) {
	if s == nil || s.closed.Load() {
		return
	}
	if row.TS == "" {
		row.TS = time.Now().UTC().Format(time.RFC3339Nano)
	}
	select {
	case s.ch <- req{kind: reqTrade, trade: row}:
	default:
	}
}

// WriteBalance upserts a player's latest balance.
func (s *SQLiteIndex) WriteBalance(playerID string, balance int64) {
	if s == nil || s.closed.Load() {
		return
	}
	r := balanceRow{PlayerID: playerID, Balance: balance, TS: time.Now().UTC().Format(time.RFC3339Nano)}
	select {
	case s.ch <- req{kind: reqBalance, balance: r}:
	default:
	}
}

// UpsertShops records the current shop catalogs (canonical JSON + digest) so
// trade rows can be joined against the definitions that produced them.
func (s *SQLiteIndex) UpsertShops(shops []*catalog.Shop) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO shops(shop_id,title,digest,json,updated_at) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, sh := range shops {
		b, err := json.Marshal(sh.Entries)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(sh.ID, sh.Title, sh.Digest(), string(b), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTrade, _ := s.db.Prepare(`INSERT INTO trades(ts,player_id,shop_id,item_id,direction,ok,code,quantity,total,balance) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	upsertBalance, _ := s.db.Prepare(`INSERT OR REPLACE INTO balances(player_id,balance,updated_at) VALUES(?,?,?)`)
	defer func() {
		if insertTrade != nil {
			_ = insertTrade.Close()
		}
		if upsertBalance != nil {
			_ = upsertBalance.Close()
		}
	}()

	const (
		commitEvery   = 256
		commitMaxWait = time.Second
	)

	var (
		tx         *sql.Tx
		opCount    int
		lastCommit = time.Now()
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	flushIfNeeded := func() {
		if tx == nil {
			return
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	ticker := time.NewTicker(commitMaxWait)
	defer ticker.Stop()

	for {
		select {
		case r, ok := <-s.ch:
			if !ok {
				commit()
				return
			}
			begin()
			if tx == nil {
				continue
			}
			switch r.kind {
			case reqTrade:
				t := r.trade
				okInt := 0
				if t.OK {
					okInt = 1
				}
				if _, err := tx.Stmt(insertTrade).Exec(
					t.TS, t.PlayerID, t.ShopID, t.ItemID, t.Direction,
					okInt, t.Code, t.Quantity, t.Total, t.Balance,
				); err != nil {
					continue
				}
				opCount++
			case reqBalance:
				b := r.balance
				if _, err := tx.Stmt(upsertBalance).Exec(b.PlayerID, b.Balance, b.TS); err != nil {
					continue
				}
				opCount++
			}
			flushIfNeeded()
		case <-ticker.C:
			flushIfNeeded()
		}
	}
}
