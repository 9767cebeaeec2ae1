// Package testutil provides shared helpers for the Postgres integration
// tests. Every helper that needs a database reads TEST_DATABASE_URL and
// skips the calling test when it is unset, so `go test ./...` stays green
// on machines without Postgres.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/pkordes/planner/backend/migrations"
)

// DSNEnv names the environment variable holding the test database URL.
const DSNEnv = "TEST_DATABASE_URL"

// plannerTables lists the schema's tables, children before parents.
var plannerTables = []string{"links", "activities", "participants", "trips"}

// NewPool returns a pgx pool on the test database, closed at test cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB returns a database/sql handle on the test database through the
// pgx driver. goose needs *sql.DB rather than a pool.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := open(requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// MustMigrate applies every pending migration to the database at dsn and
// panics on failure. It is meant for TestMain, where no *testing.T exists.
func MustMigrate(dsn string) {
	db, err := open(dsn)
	if err != nil {
		panic("testutil.MustMigrate: " + err.Error())
	}
	defer db.Close()

	if _, err := migrations.Up(context.Background(), db); err != nil {
		panic("testutil.MustMigrate: " + err.Error())
	}
}

// Truncate empties every planner table. Tests that commit data (instead of
// running inside a rolled-back transaction) call it to start clean.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	for _, table := range plannerTables {
		if _, err := pool.Exec(context.Background(), "TRUNCATE "+table+" CASCADE"); err != nil {
			t.Fatalf("testutil.Truncate %s: %v", table, err)
		}
	}
}

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip(DSNEnv + " not set; skipping integration test")
	}
	return dsn
}
