// verify-db applies pending migrations, prints the migration status, and checks
// every seller's stock counters for drift. It exits 1 when any item has drifted.
//
// Usage: go run ./cmd/verify-db
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"resale-ledger/internal/bootstrap"
	"resale-ledger/internal/config"
	"resale-ledger/internal/db"
	"resale-ledger/internal/logging"
	"resale-ledger/internal/migrate"
)

// migrationLock is the advisory lock key held while migrating Postgres.
const migrationLock = 7462839

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateStore(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Must("info", "console")
	defer logger.Sync()

	ctx := context.Background()

	if cfg.Store.Driver == config.DriverPostgres {
		pool := connectDB(ctx, cfg.Store.DatabaseURL)
		defer pool.Close()
		conn := acquireLock(ctx, pool)
		defer conn.Release()
	}

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("[MIGRATE] %v", err)
	}
	defer closeStore()
	log.Println("[MIGRATE] success")

	printStatus(ctx, cfg)

	svc := bootstrap.NewAppService(cfg, store, nil, logger)
	result, err := svc.CheckDrift(ctx, 0)
	if err != nil {
		log.Fatalf("[DRIFT] %v", err)
	}
	if len(result.Items) == 0 {
		log.Println("[DRIFT] all stock counters are consistent")
		return
	}
	for _, d := range result.Items {
		log.Printf("[DRIFT] seller %d item %d %q: purchased %d, on hand %d, sold %d, sold per sales %d",
			d.SellerID, d.ItemID, d.Title, d.QuantityPurchased, d.QuantityOnHand, d.QuantitySold, d.SoldPerSales)
	}
	logger.Warn("inventory drift found", zap.Int("items", len(result.Items)))
	os.Exit(1)
}

func connectDB(ctx context.Context, url string) *pgxpool.Pool {
	pool, err := db.NewPool(ctx, url)
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	log.Println("[CONNECT] success")
	return pool
}

func acquireLock(ctx context.Context, pool *pgxpool.Pool) *pgxpool.Conn {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		log.Fatalf("[LOCK] failed to acquire connection for lock: %v", err)
	}

	var locked bool
	err = conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", migrationLock).Scan(&locked)
	if err != nil {
		log.Fatalf("[LOCK] failed to query advisory lock: %v", err)
	}
	if !locked {
		log.Fatalf("[LOCK] failed: another migrator is currently running")
	}

	log.Println("[LOCK] success")
	return conn
}

func printStatus(ctx context.Context, cfg *config.Config) {
	var (
		sqlDB   *sql.DB
		dialect migrate.Dialect
		err     error
	)
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		sqlDB, err = db.OpenSQLite(cfg.Store.SQLitePath)
		dialect = migrate.SQLite
	default:
		sqlDB, err = sql.Open("pgx", cfg.Store.DatabaseURL)
		dialect = migrate.Postgres
	}
	if err != nil {
		log.Fatalf("[STATUS] %v", err)
	}
	defer sqlDB.Close()

	statuses, err := migrate.Status(ctx, sqlDB, dialect)
	if err != nil {
		log.Fatalf("[STATUS] %v", err)
	}
	for _, s := range statuses {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Printf("  %05d  %-8s %-28s %s\n", s.Source.Version, s.State, s.Source.Path, applied)
	}
}
