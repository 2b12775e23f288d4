package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapStorage(t *testing.T) {
	if WrapStorage("insert", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}

	base := errors.New("disk full")
	err := WrapStorage("insert", base)
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %T", err)
	}
	if se.Op != "insert" || !errors.Is(err, base) {
		t.Fatalf("unexpected wrap: %+v", se)
	}

	if again := WrapStorage("update", err); again != err {
		t.Fatalf("expected existing StorageError to pass through")
	}

	nf := fmt.Errorf("lookup: %w", ErrNotFound{ID: 9})
	if got := WrapStorage("find", nf); got != nf {
		t.Fatalf("expected not found to pass through, got %v", got)
	}
	if !IsNotFound(nf) {
		t.Fatalf("expected IsNotFound")
	}
	if IsNotFound(base) {
		t.Fatalf("plain error is not a not-found")
	}
}

func TestErrorMessages(t *testing.T) {
	if got := (ErrNotFound{ID: 99}).Error(); got != "recipient 99 not found" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (ErrDuplicate{Name: "Ani", Address: "Jl. A"}).Error(); got == "" {
		t.Fatalf("expected duplicate message")
	}
	conn := &ConnectionError{Driver: "mysql", Err: errors.New("refused")}
	if conn.Error() != "connect mysql: refused" {
		t.Fatalf("unexpected connection message %q", conn.Error())
	}
	if !errors.Is(&StorageError{Op: "list", Err: conn}, conn.Err) {
		t.Fatalf("expected unwrap chain to reach connection cause")
	}
}
