package mysql

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"sembako/internal/infra/persistence/sqlstub"
)

func TestNewStoreAppliesDDL(t *testing.T) {
	db, conn := sqlstub.NewDB()
	var gotDSN string
	restore := OverrideSQLOpen(func(_, dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return db, nil
	})
	defer restore()

	store, err := NewStore(context.Background(), "", true)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if gotDSN != DefaultDSN {
		t.Fatalf("expected default dsn, got %q", gotDSN)
	}
	if store.Dialect().Name != "mysql" {
		t.Fatalf("unexpected dialect %s", store.Dialect().Name)
	}
	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(stmt, "INT AUTO_INCREMENT") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected mysql DDL to be applied, got execs: %v", conn.Execs)
	}
}

func TestNewStorePingFailure(t *testing.T) {
	db, conn := sqlstub.NewDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(sqlstub.Opener(db))
	defer restore()

	if _, err := NewStore(context.Background(), "ignored", true); err == nil {
		t.Fatalf("expected ping failure")
	}
	if conn.ExecCount() != 0 {
		t.Fatalf("no DDL expected after failed ping, got %v", conn.Execs)
	}
}
