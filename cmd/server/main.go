package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"tradepost.gg/internal/persistence/indexdb"
	tradelog "tradepost.gg/internal/persistence/log"
	"tradepost.gg/internal/shop/catalog"
	"tradepost.gg/internal/shop/inventory"
	"tradepost.gg/internal/shop/ledger"
	"tradepost.gg/internal/shop/settle"
	"tradepost.gg/internal/transport/adminapi"
	"tradepost.gg/internal/transport/ws"
	"tradepost.gg/internal/tuning"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		shopsDir   = flag.String("shops", "./configs/shops", "shop definitions directory")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite trade index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", *tuningPath)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	store := catalog.NewStore(catalog.NewDir(*shopsDir, logger), logger)
	if err := store.Load(); err != nil {
		logger.Fatalf("load shops: %v", err)
	}
	logger.Printf("loaded %d shops", len(store.IDs()))

	led := ledger.New()
	ledgerFile := ledger.NewFile(filepath.Join(*dataDir, "ledger.json"))
	balances, err := ledgerFile.LoadAll()
	if err != nil {
		logger.Fatalf("load ledger: %v", err)
	}
	led.Replace(balances)
	logger.Printf("loaded %d player balances", led.Len())

	saveLedger := func(reason string) {
		if err := ledgerFile.SaveAll(led.Snapshot()); err != nil {
			logger.Printf("ERROR: save ledger (%s): %v; in-memory state remains authoritative", reason, err)
		}
	}

	trades := tradelog.NewTradeLogger(*dataDir)
	defer trades.Close()

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index", "tradepost.db"))
		if err != nil {
			logger.Fatalf("open trade index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertShops(store.All()); err != nil {
			logger.Printf("WARN: trade index: upsert shops: %v", err)
		}
	}

	proc := &settle.Processor{
		Ledger:    led,
		Inventory: inventory.NewStacks(),
		BulkMax:   tune.BulkTradeMax,
		Log:       logger,
	}

	srv := ws.NewServer(store, led, proc, tune, logger)
	srv.OnTrade = func(player uuid.UUID, shopID, direction string, out settle.Outcome, balance int64) {
		entry := tradelog.TradeEntry{
			TS:        time.Now().UTC().Format(time.RFC3339Nano),
			PlayerID:  player.String(),
			ShopID:    shopID,
			Direction: direction,
			OK:        out.OK,
			Code:      out.Code,
			Quantity:  out.Quantity,
			Total:     out.Total,
			Balance:   balance,
		}
		if out.Entry != nil {
			entry.ItemID = out.Entry.ItemID
		}
		if err := trades.WriteTrade(entry); err != nil {
			logger.Printf("WARN: trade log: %v", err)
		}
		idx.WriteTrade(indexdb.TradeRow{
			TS:        entry.TS,
			PlayerID:  entry.PlayerID,
			ShopID:    entry.ShopID,
			ItemID:    entry.ItemID,
			Direction: entry.Direction,
			OK:        entry.OK,
			Code:      entry.Code,
			Quantity:  entry.Quantity,
			Total:     entry.Total,
			Balance:   entry.Balance,
		})
		idx.WriteBalance(entry.PlayerID, balance)
	}
	srv.OnDisconnect = func(player uuid.UUID) {
		saveLedger("disconnect")
	}

	admin := &adminapi.API{
		Store:  store,
		Ledger: led,
		Log:    logger,
		OnReload: func() {
			if err := idx.UpsertShops(store.All()); err != nil {
				logger.Printf("WARN: trade index: upsert shops: %v", err)
			}
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	if envBool("TP_ENABLE_ADMIN_HTTP", defaultEnableAdminHTTP()) {
		// Loopback-only; adminapi rejects non-local peers itself.
		admin.Register(mux)
	} else {
		logger.Printf("admin endpoints disabled (TP_ENABLE_ADMIN_HTTP=false)")
	}

	httpSrv := &http.Server{Addr: *addr, Handler: mux}

	// Periodic ledger autosave; never blocks trade processing.
	stopAutosave := make(chan struct{})
	if tune.AutosaveSeconds > 0 {
		go func() {
			t := time.NewTicker(time.Duration(tune.AutosaveSeconds) * time.Second)
			defer t.Stop()
			for {
				select {
				case <-stopAutosave:
					return
				case <-t.C:
					saveLedger("autosave")
				}
			}
		}()
	}

	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Printf("shutting down")

	close(stopAutosave)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	saveLedger("shutdown")
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func defaultEnableAdminHTTP() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEPLOY_ENV"))) {
	case "staging", "production":
		return false
	default:
		return true
	}
}
