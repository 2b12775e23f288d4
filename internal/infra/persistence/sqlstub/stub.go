// Package sqlstub provides a recording database/sql driver for store tests
// that need failure injection or statement inspection without a server.
package sqlstub

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

var seq uint64

// QueryFunc answers a query with column names and rows.
type QueryFunc func(query string, args []driver.NamedValue) ([]string, [][]driver.Value, error)

// Conn records statements issued through the stub driver.
type Conn struct {
	mu sync.Mutex

	Execs   []string
	Queries []string

	FailPing  bool
	FailExec  bool
	FailQuery bool

	// LastInsertID and RowsAffected are reported for every successful exec.
	LastInsertID int64
	RowsAffected int64

	// OnQuery answers queries; nil yields empty result sets.
	OnQuery QueryFunc
}

// NewDB registers a fresh stub driver and returns a sql.DB bound to it.
func NewDB() (*sql.DB, *Conn) {
	conn := &Conn{RowsAffected: 1}
	name := fmt.Sprintf("sqlstub%d", atomic.AddUint64(&seq, 1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

// Opener returns a sql.Open replacement that always yields db.
func Opener(db *sql.DB) func(string, string) (*sql.DB, error) {
	return func(string, string) (*sql.DB, error) { return db, nil }
}

// ExecCount returns the number of recorded execs.
func (c *Conn) ExecCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Execs)
}

type stubDriver struct {
	conn *Conn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

// Prepare implements driver.Conn.
func (c *Conn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *Conn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *Conn) Begin() (driver.Tx, error) { return stubTx{}, nil }

// Ping implements driver.Pinger.
func (c *Conn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// ExecContext implements driver.ExecerContext.
func (c *Conn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	return stubResult{id: c.LastInsertID, rows: c.RowsAffected}, nil
}

// QueryContext implements driver.QueryerContext.
func (c *Conn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	c.Queries = append(c.Queries, query)
	fail, fn := c.FailQuery, c.OnQuery
	c.mu.Unlock()
	if fail {
		return nil, fmt.Errorf("query fail")
	}
	if fn == nil {
		return &stubRows{}, nil
	}
	cols, rows, err := fn(query, args)
	if err != nil {
		return nil, err
	}
	return &stubRows{cols: cols, rows: rows}, nil
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubResult struct {
	id   int64
	rows int64
}

func (r stubResult) LastInsertId() (int64, error) { return r.id, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.rows, nil }

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
