package core

import (
	"context"
	"fmt"

	"sembako/internal/config"
	"sembako/internal/infra/persistence/memory"
	"sembako/internal/infra/persistence/mysql"
	"sembako/internal/infra/persistence/postgres"
	"sembako/internal/infra/persistence/sqlite"
	"sembako/pkg/domain"
)

// OpenStore connects the recipient store selected by cfg.Driver. Any failure
// to reach the backend is reported as a *domain.ConnectionError so the caller
// can continue in degraded mode.
//
//	mysql:    cfg.MySQLDSN    (default mysql.DefaultDSN)
//	postgres: cfg.PostgresDSN (default postgres.DefaultDSN)
//	sqlite:   cfg.SQLitePath  (default sqlite.DefaultPath)
//	memory:   process-local, nothing persisted
func OpenStore(ctx context.Context, cfg config.StorageConfig) (domain.RecipientStore, error) {
	var (
		store domain.RecipientStore
		err   error
	)
	switch cfg.Driver {
	case config.StorageMySQL, "":
		store, err = openTyped(mysql.NewStore(ctx, cfg.MySQLDSN, cfg.EnsureSchema))
	case config.StoragePostgres:
		store, err = openTyped(postgres.NewStore(ctx, cfg.PostgresDSN, cfg.EnsureSchema))
	case config.StorageSQLite:
		store, err = openTyped(sqlite.NewStore(ctx, cfg.SQLitePath, cfg.EnsureSchema))
	case config.StorageMemory:
		return memory.NewStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		driver := cfg.Driver
		if driver == "" {
			driver = config.StorageMySQL
		}
		return nil, &domain.ConnectionError{Driver: driver, Err: err}
	}
	return store, nil
}

func openTyped[S domain.RecipientStore](s S, err error) (domain.RecipientStore, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UnavailableStore stands in for a store that could not be connected. Every
// operation fails with a StorageError wrapping the connection failure.
type UnavailableStore struct {
	cause error
}

var _ domain.RecipientStore = UnavailableStore{}

// NewUnavailableStore returns a store whose operations all fail with cause.
func NewUnavailableStore(cause error) UnavailableStore {
	return UnavailableStore{cause: cause}
}

func (u UnavailableStore) fail(op string) error {
	return &domain.StorageError{Op: op, Err: u.cause}
}

func (u UnavailableStore) Exists(context.Context, string, string) (bool, error) {
	return false, u.fail("exists")
}

func (u UnavailableStore) Insert(context.Context, string, string, int) (int64, error) {
	return 0, u.fail("insert")
}

func (u UnavailableStore) FindByID(context.Context, int64) (domain.Recipient, error) {
	return domain.Recipient{}, u.fail("find")
}

func (u UnavailableStore) List(context.Context) ([]domain.Recipient, error) {
	return nil, u.fail("list")
}

func (u UnavailableStore) Update(context.Context, int64, string, int) error {
	return u.fail("update")
}

func (u UnavailableStore) Delete(context.Context, int64) (string, error) {
	return "", u.fail("delete")
}

func (UnavailableStore) Close() error { return nil }
