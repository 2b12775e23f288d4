package core

import "testing"

func TestMirrorAddAndList(t *testing.T) {
	m := NewMirror()
	m.Add("Ani", "Jl. Mawar 1", 4)
	m.Add("Budi", "Jl. Melati 2", 2)

	got := m.List()
	if len(got) != 2 || m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Name != "Ani" || got[1].Name != "Budi" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].RationQuantity() != 12 {
		t.Fatalf("expected ration 12, got %d", got[0].RationQuantity())
	}

	got[0].Name = "mutated"
	if m.List()[0].Name != "Ani" {
		t.Fatalf("List must return a copy")
	}
}

func TestMirrorUpdateByNameFirstMatchOnly(t *testing.T) {
	m := NewMirror()
	m.Add("Ani", "A", 1)
	m.Add("Ani", "B", 1)

	m.UpdateByName("Ani", "Ana", 5)
	got := m.List()
	if got[0].Name != "Ana" || got[0].FamilySize != 5 {
		t.Fatalf("first entry not updated: %+v", got[0])
	}
	if got[1].Name != "Ani" || got[1].FamilySize != 1 {
		t.Fatalf("second entry should be untouched: %+v", got[1])
	}
}

func TestMirrorUpdateByNameNoMatch(t *testing.T) {
	m := NewMirror()
	m.Add("Ani", "A", 1)
	m.UpdateByName("Zed", "Zed", 9)
	if got := m.List()[0]; got.Name != "Ani" || got.FamilySize != 1 {
		t.Fatalf("unexpected change: %+v", got)
	}
}

func TestMirrorRemoveByNameRemovesAll(t *testing.T) {
	m := NewMirror()
	m.Add("Ani", "A", 1)
	m.Add("Budi", "B", 2)
	m.Add("Ani", "C", 3)

	m.RemoveByName("Ani")
	got := m.List()
	if len(got) != 1 || got[0].Name != "Budi" {
		t.Fatalf("expected only Budi, got %+v", got)
	}
	m.RemoveByName("Nobody")
	if m.Len() != 1 {
		t.Fatalf("removing unknown name changed the mirror")
	}
}
