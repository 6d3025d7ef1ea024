package db

import (
	"context"
	"database/sql"
	"testing"

	"resale-ledger/internal/migrate"
)

// NewTestDB creates a fresh in-memory SQLite database with all migrations applied.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := migrate.Up(context.Background(), db, migrate.SQLite); err != nil {
		db.Close()
		t.Fatalf("migrating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
