package memory

import (
	"bytes"
	"context"
	"testing"

	"sembako/internal/blob/core"
)

func TestMetadataIsolation(t *testing.T) {
	s := New()
	md := map[string]string{"format": "json"}
	if _, err := s.Put(context.Background(), "k", bytes.NewReader(nil), core.PutOptions{Metadata: md}); err != nil {
		t.Fatalf("put: %v", err)
	}
	md["format"] = "mutated"

	info, rc, err := s.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = rc.Close()
	if info.Metadata["format"] != "json" {
		t.Fatalf("metadata not copied on put: %+v", info.Metadata)
	}
	info.Metadata["format"] = "changed"

	list, _ := s.List(context.Background(), "")
	if list[0].Metadata["format"] != "json" {
		t.Fatalf("metadata not copied on get: %+v", list[0].Metadata)
	}
}

func TestPutEmptyKey(t *testing.T) {
	if _, err := New().Put(context.Background(), " ", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestDriver(t *testing.T) {
	if New().Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver")
	}
}
