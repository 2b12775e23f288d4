// Package sqlite provides an embedded SQLite recipient store backed by the
// pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sembako/internal/infra/persistence/sqlstore"
	"sembako/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.RecipientStore = (*Store)(nil)

// DefaultPath is used when no path is configured.
const DefaultPath = "sembako.db"

const (
	pragmaForeignKeysOn = `PRAGMA foreign_keys=ON`
	pragmaBusyTimeout   = `PRAGMA busy_timeout=5000`
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists recipients to a single SQLite file.
type Store struct {
	*sqlstore.Store
	path string
}

// NewStore opens (creating if needed) the SQLite database at path.
// Use ":memory:" for a throwaway database.
func NewStore(ctx context.Context, path string, ensureSchema bool) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	openMu.Lock()
	open := sqlOpen
	openMu.Unlock()
	s, err := sqlstore.Open(ctx, open, "sqlite", path, sqlstore.SQLite, sqlstore.Options{
		EnsureSchema: ensureSchema,
		Init:         []string{pragmaForeignKeysOn, pragmaBusyTimeout},
	})
	if err != nil {
		return nil, err
	}
	return &Store{Store: s, path: path}, nil
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

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
