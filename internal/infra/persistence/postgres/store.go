// Package postgres provides a Postgres-backed recipient store through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"sync"

	"sembako/internal/infra/persistence/sqlstore"
	"sembako/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.RecipientStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	// DefaultDSN keeps parity with the MySQL defaults (local server, sembako database).
	DefaultDSN = "postgres://localhost/pembagiansembako_db?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists recipients to Postgres.
type Store struct {
	*sqlstore.Store
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to DefaultDSN).
// When ensureSchema is set the recipients table is created if missing.
func NewStore(ctx context.Context, dsn string, ensureSchema bool) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	openMu.Lock()
	open := sqlOpen
	openMu.Unlock()
	s, err := sqlstore.Open(ctx, open, defaultDriver, dsn, sqlstore.Postgres, sqlstore.Options{EnsureSchema: ensureSchema})
	if err != nil {
		return nil, err
	}
	return &Store{Store: s}, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
