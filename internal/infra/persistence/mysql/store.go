// Package mysql provides the MySQL-backed recipient store, the deployment
// target of the original console program.
package mysql

import (
	"context"
	"database/sql"
	"sync"

	"sembako/internal/infra/persistence/sqlstore"
	"sembako/pkg/domain"

	_ "github.com/go-sql-driver/mysql" // register mysql as a database/sql driver
)

var _ domain.RecipientStore = (*Store)(nil)

const (
	defaultDriver = "mysql"
	// DefaultDSN reproduces the fixed connection constants (localhost, root,
	// empty password, pembagiansembako_db).
	DefaultDSN = "root:@tcp(localhost:3306)/pembagiansembako_db?parseTime=true"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists recipients to MySQL.
type Store struct {
	*sqlstore.Store
}

// NewStore opens a MySQL-backed store using the provided DSN (falls back to DefaultDSN).
func NewStore(ctx context.Context, dsn string, ensureSchema bool) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	openMu.Lock()
	open := sqlOpen
	openMu.Unlock()
	s, err := sqlstore.Open(ctx, open, defaultDriver, dsn, sqlstore.MySQL, sqlstore.Options{EnsureSchema: ensureSchema})
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
