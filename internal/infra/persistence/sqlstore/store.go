// Package sqlstore implements domain.RecipientStore over database/sql. The
// mysql, postgres and sqlite packages open a connection with their driver and
// wrap this store with the matching Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sembako/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.RecipientStore = (*Store)(nil)

const selectColumns = `SELECT id, name, address, family_size, added_date FROM recipients`

// OpenFunc matches sql.Open and is swapped by tests.
type OpenFunc func(driverName, dataSourceName string) (*sql.DB, error)

// Options controls connection bootstrap.
type Options struct {
	// EnsureSchema runs the dialect's CREATE TABLE IF NOT EXISTS after ping.
	EnsureSchema bool
	// Init runs after ping and before schema bootstrap (e.g. PRAGMAs).
	Init []string
}

// Store is a recipients repository bound to one *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an already opened database.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Open opens driverName/dsn through open, verifies the connection and
// optionally bootstraps the recipients table. The pool is limited to a single
// connection held for the process lifetime.
func Open(ctx context.Context, open OpenFunc, driverName, dsn string, dialect Dialect, opts Options) (*Store, error) {
	db, err := open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}
	for _, stmt := range opts.Init {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure %s %q: %w", dialect.Name, stmt, err)
		}
	}
	s := New(db, dialect)
	if opts.EnsureSchema {
		if err := s.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// EnsureSchema creates the recipients table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.CreateTable); err != nil {
		return fmt.Errorf("ensure recipients table: %w", err)
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the SQL dialect in use.
func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) Exists(ctx context.Context, name, address string) (bool, error) {
	var n int
	q := s.dialect.Rebind(`SELECT COUNT(1) FROM recipients WHERE name = ? AND address = ?`)
	if err := s.db.QueryRowContext(ctx, q, name, address).Scan(&n); err != nil {
		return false, domain.WrapStorage("exists", err)
	}
	return n > 0, nil
}

func (s *Store) Insert(ctx context.Context, name, address string, familySize int) (int64, error) {
	q := `INSERT INTO recipients (name, address, family_size) VALUES (?, ?, ?)`
	if s.dialect.ReturningID {
		var id int64
		if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(q+` RETURNING id`), name, address, familySize).Scan(&id); err != nil {
			return 0, domain.WrapStorage("insert", err)
		}
		return id, nil
	}
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(q), name, address, familySize)
	if err != nil {
		return 0, domain.WrapStorage("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.WrapStorage("insert", err)
	}
	return id, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (domain.Recipient, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(selectColumns+` WHERE id = ?`), id)
	r, err := scanRecipient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Recipient{}, domain.ErrNotFound{ID: id}
	}
	if err != nil {
		return domain.Recipient{}, domain.WrapStorage("find", err)
	}
	return r, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Recipient, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id ASC`)
	if err != nil {
		return nil, domain.WrapStorage("list", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.Recipient
	for rows.Next() {
		r, err := scanRecipient(rows)
		if err != nil {
			return nil, domain.WrapStorage("list", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorage("list", err)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, id int64, name string, familySize int) error {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`UPDATE recipients SET name = ?, family_size = ? WHERE id = ?`), name, familySize, id)
	if err != nil {
		return domain.WrapStorage("update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.WrapStorage("update", err)
	}
	if n > 0 {
		return nil
	}
	// MySQL reports zero affected rows when the values are unchanged.
	ok, err := s.hasID(ctx, id)
	if err != nil {
		return domain.WrapStorage("update", err)
	}
	if !ok {
		return domain.ErrNotFound{ID: id}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT name FROM recipients WHERE id = ?`), id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound{ID: id}
	}
	if err != nil {
		return "", domain.WrapStorage("delete", err)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM recipients WHERE id = ?`), id); err != nil {
		return "", domain.WrapStorage("delete", err)
	}
	return name, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) hasID(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT COUNT(1) FROM recipients WHERE id = ?`), id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipient(sc scanner) (domain.Recipient, error) {
	var (
		r     domain.Recipient
		added timestamp
	)
	if err := sc.Scan(&r.ID, &r.Name, &r.Address, &r.FamilySize, &added); err != nil {
		return domain.Recipient{}, err
	}
	r.AddedDate = added.t
	return r, nil
}

// timestamp accepts the representations drivers use for added_date: native
// time values (pgx, mysql with parseTime) or text (sqlite defaults).
type timestamp struct{ t time.Time }

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

func (ts *timestamp) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		ts.t = time.Time{}
		return nil
	case time.Time:
		ts.t = x
		return nil
	case []byte:
		return ts.parse(string(x))
	case string:
		return ts.parse(x)
	default:
		return fmt.Errorf("scan added_date: unsupported type %T", v)
	}
}

func (ts *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.t = t
			return nil
		}
	}
	return fmt.Errorf("scan added_date: unrecognised timestamp %q", s)
}
