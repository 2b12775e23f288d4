package core

import (
	"context"
	"path/filepath"
	"testing"

	"sembako/internal/infra/persistence/memory"
	"sembako/internal/infra/persistence/sqlite"
	"sembako/pkg/domain"
)

type backend struct {
	name string
	open func(t *testing.T) domain.RecipientStore
}

func backends() []backend {
	return []backend{
		{"memory", func(*testing.T) domain.RecipientStore { return memory.NewStore(nil) }},
		{"sqlite", func(t *testing.T) domain.RecipientStore {
			s, err := sqlite.NewStore(context.Background(), filepath.Join(t.TempDir(), "sembako.db"), true)
			if err != nil {
				t.Skipf("sqlite unavailable: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, svc *Service)) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			fn(t, NewService(b.open(t), NewMirror()))
		})
	}
}

func snapshot(t *testing.T, svc *Service) Listing {
	t.Helper()
	listing, err := svc.Display(context.Background())
	if err != nil {
		t.Fatalf("display: %v", err)
	}
	return listing
}

func TestScenarioAddDisplayDuplicate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		if _, err := svc.Add(ctx, "Ani", "Jl. A", 4); err != nil {
			t.Fatalf("add: %v", err)
		}
		listing := snapshot(t, svc)
		if len(listing.Stored) != 1 || listing.Stored[0].RationQuantity() != 12 {
			t.Fatalf("unexpected stored: %+v", listing.Stored)
		}
		if len(listing.Session) != 1 || listing.Session[0].Name != "Ani" {
			t.Fatalf("unexpected session: %+v", listing.Session)
		}

		if _, err := svc.Add(ctx, "Ani", "Jl. A", 4); err == nil {
			t.Fatalf("expected duplicate")
		}
		if got := snapshot(t, svc); len(got.Stored) != 1 {
			t.Fatalf("expected exactly one record, got %d", len(got.Stored))
		}
	})
}

func TestScenarioUpdateExisting(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		id, err := svc.Add(ctx, "Ani", "Jl. A", 4)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := svc.Update(ctx, id, "Budi", 6); err != nil {
			t.Fatalf("update: %v", err)
		}
		r, err := svc.Store().FindByID(ctx, id)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if r.Name != "Budi" || r.FamilySize != 6 || r.Address != "Jl. A" {
			t.Fatalf("unexpected record: %+v", r)
		}
		if r.RationQuantity() != 18 {
			t.Fatalf("expected ration 18, got %d", r.RationQuantity())
		}
	})
}

func TestScenarioMissingIDLeavesStateUnchanged(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		if _, err := svc.Add(ctx, "Ani", "Jl. A", 4); err != nil {
			t.Fatalf("add: %v", err)
		}
		before := snapshot(t, svc)

		if err := svc.Update(ctx, 99, "X", 1); !domain.IsNotFound(err) {
			t.Fatalf("update: expected not found, got %v", err)
		}
		if _, err := svc.Delete(ctx, 99); !domain.IsNotFound(err) {
			t.Fatalf("delete: expected not found, got %v", err)
		}

		after := snapshot(t, svc)
		if len(after.Stored) != len(before.Stored) || after.Stored[0] != before.Stored[0] {
			t.Fatalf("store changed: %+v -> %+v", before.Stored, after.Stored)
		}
		if len(after.Session) != 1 || after.Session[0] != before.Session[0] {
			t.Fatalf("mirror changed: %+v -> %+v", before.Session, after.Session)
		}
	})
}

func TestScenarioDeletePreservesOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		var ids []int64
		for _, name := range []string{"Ani", "Budi", "Citra", "Dewi"} {
			id, err := svc.Add(ctx, name, "Jl. "+name, 2)
			if err != nil {
				t.Fatalf("add %s: %v", name, err)
			}
			ids = append(ids, id)
		}
		if _, err := svc.Delete(ctx, ids[1]); err != nil {
			t.Fatalf("delete: %v", err)
		}
		stored := snapshot(t, svc).Stored
		want := []string{"Ani", "Citra", "Dewi"}
		if len(stored) != len(want) {
			t.Fatalf("expected %d records, got %+v", len(want), stored)
		}
		for i, r := range stored {
			if r.Name != want[i] {
				t.Fatalf("position %d: want %s, got %s", i, want[i], r.Name)
			}
			if r.RationQuantity() != r.FamilySize*domain.RationPerMember {
				t.Fatalf("ration not derived for %+v", r)
			}
		}
	})
}
