// Package memory implements an in-process recipient store used by tests and
// by the "memory" storage driver. It follows the same contract as the SQL
// stores: monotonically increasing ids that are never reused.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"sembako/pkg/domain"
)

var _ domain.RecipientStore = (*Store)(nil)

// Clock supplies creation timestamps.
type Clock func() time.Time

// Store keeps recipients ordered by id.
type Store struct {
	mu      sync.RWMutex
	clock   Clock
	lastID  int64
	records []domain.Recipient
	closed  bool
}

// NewStore returns an empty store. A nil clock uses time.Now in UTC.
func NewStore(clock Clock) *Store {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Store{clock: clock}
}

func (s *Store) Exists(_ context.Context, name, address string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen("exists"); err != nil {
		return false, err
	}
	for _, r := range s.records {
		if r.Name == name && r.Address == address {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Insert(_ context.Context, name, address string, familySize int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("insert"); err != nil {
		return 0, err
	}
	s.lastID++
	r := domain.NewRecipient(name, address, familySize)
	r.ID = s.lastID
	r.AddedDate = s.clock()
	s.records = append(s.records, r)
	return r.ID, nil
}

func (s *Store) FindByID(_ context.Context, id int64) (domain.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen("find"); err != nil {
		return domain.Recipient{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return domain.Recipient{}, domain.ErrNotFound{ID: id}
	}
	return s.records[i], nil
}

func (s *Store) List(_ context.Context) ([]domain.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen("list"); err != nil {
		return nil, err
	}
	out := make([]domain.Recipient, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) Update(_ context.Context, id int64, name string, familySize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("update"); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound{ID: id}
	}
	s.records[i].Name = name
	s.records[i].FamilySize = familySize
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("delete"); err != nil {
		return "", err
	}
	i := s.indexOf(id)
	if i < 0 {
		return "", domain.ErrNotFound{ID: id}
	}
	name := s.records[i].Name
	s.records = append(s.records[:i], s.records[i+1:]...)
	return name, nil
}

// Close marks the store closed; later calls fail with a StorageError.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) checkOpen(op string) error {
	if s.closed {
		return &domain.StorageError{Op: op, Err: errClosed}
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

var errClosed = errors.New("memory store closed")
