package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"sembako/pkg/domain"
)

func fixedClock() time.Time { return time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC) }

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewStore(fixedClock)

	id, err := store.Insert(ctx, "Ani", "Jl. A", 4)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first id 1, got %d", id)
	}
	ok, err := store.Exists(ctx, "Ani", "Jl. A")
	if err != nil || !ok {
		t.Fatalf("expected exists, got %v %v", ok, err)
	}
	if ok, _ := store.Exists(ctx, "Ani", "Jl. B"); ok {
		t.Fatalf("exists must match name and address together")
	}

	got, err := store.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.AddedDate.Equal(fixedClock()) {
		t.Fatalf("expected added date from clock, got %v", got.AddedDate)
	}

	if err := store.Update(ctx, id, "Budi", 6); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = store.FindByID(ctx, id)
	if got.Name != "Budi" || got.FamilySize != 6 || got.Address != "Jl. A" {
		t.Fatalf("unexpected record after update: %+v", got)
	}

	name, err := store.Delete(ctx, id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if name != "Budi" {
		t.Fatalf("expected deleted name Budi, got %q", name)
	}
	if _, err := store.FindByID(ctx, id); !domain.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestStoreIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	for _, n := range []string{"A", "B", "C"} {
		if _, err := store.Insert(ctx, n, "addr", 1); err != nil {
			t.Fatalf("insert %s: %v", n, err)
		}
	}
	if _, err := store.Delete(ctx, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	id, err := store.Insert(ctx, "D", "addr", 1)
	if err != nil {
		t.Fatalf("insert D: %v", err)
	}
	if id != 4 {
		t.Fatalf("expected id 4 after deleting 3, got %d", id)
	}
}

func TestStoreListOrderedAfterDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	for _, n := range []string{"A", "B", "C", "D"} {
		_, _ = store.Insert(ctx, n, "addr", 2)
	}
	if _, err := store.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int64{1, 3, 4}
	if len(list) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(list))
	}
	for i, r := range list {
		if r.ID != want[i] {
			t.Fatalf("position %d: expected id %d, got %d", i, want[i], r.ID)
		}
	}
	list[0].Name = "mutated"
	again, _ := store.List(ctx)
	if again[0].Name == "mutated" {
		t.Fatalf("list must return a copy")
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	if err := store.Update(ctx, 99, "x", 1); !domain.IsNotFound(err) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if _, err := store.Delete(ctx, 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestStoreClosedReturnsStorageError(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err := store.Insert(ctx, "Ani", "Jl. A", 1)
	var se *domain.StorageError
	if !errors.As(err, &se) || se.Op != "insert" {
		t.Fatalf("expected insert storage error, got %v", err)
	}
	if _, err := store.List(ctx); !errors.As(err, &se) {
		t.Fatalf("expected list storage error, got %v", err)
	}
}
