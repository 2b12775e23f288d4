package core

import (
	"sync"

	"sembako/pkg/domain"
)

// Mirror is the session-scoped, in-memory list of recipients added during
// the current run. It is never loaded from the store and never reconciled
// with it: entries are matched by name only, so it is a best-effort echo of
// this session's additions rather than a cache of persistent state.
type Mirror struct {
	mu      sync.Mutex
	entries []domain.Recipient
}

// NewMirror returns an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{}
}

// Add appends an entry.
func (m *Mirror) Add(name, address string, familySize int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, domain.NewRecipient(name, address, familySize))
}

// UpdateByName overwrites the first entry whose name equals name. It is a
// silent no-op when nothing matches.
func (m *Mirror) UpdateByName(name, newName string, newFamilySize int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].Name == name {
			m.entries[i].Name = newName
			m.entries[i].FamilySize = newFamilySize
			return
		}
	}
}

// RemoveByName drops every entry whose name equals name.
func (m *Mirror) RemoveByName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	clear(m.entries[len(kept):])
	m.entries = kept
}

// List returns a copy of the entries in insertion order.
func (m *Mirror) List() []domain.Recipient {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Recipient, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries.
func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
