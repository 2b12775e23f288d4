package core

import (
	"context"
	"errors"
	"time"

	"sembako/internal/infra/persistence/memory"
	"sembako/pkg/domain"
)

// Service is the facade over the persistent store and the session mirror.
type Service struct {
	store   domain.RecipientStore
	mirror  *Mirror
	logger  Logger
	metrics MetricsRecorder
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger routes operation logs to l.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsRecorder records one observation per operation.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the clock used for operation timing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a service backed by the supplied store. A nil mirror
// starts an empty one.
func NewService(store domain.RecipientStore, mirror *Mirror, opts ...Option) *Service {
	if mirror == nil {
		mirror = NewMirror()
	}
	s := &Service{
		store:   store,
		mirror:  mirror,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store.
func NewInMemoryService(opts ...Option) *Service {
	return NewService(memory.NewStore(nil), NewMirror(), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.RecipientStore {
	return s.store
}

// Mirror returns the session mirror.
func (s *Service) Mirror() *Mirror {
	return s.mirror
}

// Listing is the result of Display: every stored recipient ordered by id,
// followed by this session's mirror entries.
type Listing struct {
	Stored  []domain.Recipient
	Session []domain.Recipient
}

// Add registers a new recipient unless one with the same name and address is
// already stored. The mirror entry is appended before the insert, so a failed
// insert leaves it in the mirror.
func (s *Service) Add(ctx context.Context, name, address string, familySize int) (int64, error) {
	var id int64
	err := s.run(ctx, "add", func() error {
		exists, err := s.store.Exists(ctx, name, address)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicate{Name: name, Address: address}
		}
		s.mirror.Add(name, address, familySize)
		id, err = s.store.Insert(ctx, name, address, familySize)
		if err != nil {
			s.logger.Warn("mirror diverged from store", "name", name)
			return err
		}
		return nil
	}, "name", name)
	return id, err
}

// Display lists stored recipients and the session mirror. On a store failure
// the listing is empty.
func (s *Service) Display(ctx context.Context) (Listing, error) {
	var out Listing
	err := s.run(ctx, "display", func() error {
		stored, err := s.store.List(ctx)
		if err != nil {
			return err
		}
		out = Listing{Stored: stored, Session: s.mirror.List()}
		return nil
	})
	return out, err
}

// Update renames a stored recipient and changes its family size. The mirror
// is then updated by matching on the new name, so only entries already
// carrying that name are touched.
func (s *Service) Update(ctx context.Context, id int64, newName string, newFamilySize int) error {
	return s.run(ctx, "update", func() error {
		if _, err := s.store.FindByID(ctx, id); err != nil {
			return err
		}
		if err := s.store.Update(ctx, id, newName, newFamilySize); err != nil {
			return err
		}
		s.mirror.UpdateByName(newName, newName, newFamilySize)
		return nil
	}, "id", id)
}

// Delete removes a stored recipient and every mirror entry sharing its name.
// It returns the removed recipient's name.
func (s *Service) Delete(ctx context.Context, id int64) (string, error) {
	var name string
	err := s.run(ctx, "delete", func() error {
		r, err := s.store.FindByID(ctx, id)
		if err != nil {
			return err
		}
		name = r.Name
		if _, err := s.store.Delete(ctx, id); err != nil {
			return err
		}
		s.mirror.RemoveByName(name)
		return nil
	}, "id", id)
	return name, err
}

// Close releases the store.
func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) run(ctx context.Context, op string, fn func() error, attrs ...any) error {
	start := s.now()
	err := fn()
	s.metrics.Observe(ctx, op, err == nil, s.now().Sub(start))

	args := append([]any{"op", op}, attrs...)
	var dup domain.ErrDuplicate
	switch {
	case err == nil:
		s.logger.Debug("operation completed", args...)
	case domain.IsNotFound(err), errors.As(err, &dup):
		s.logger.Info("operation rejected", append(args, "error", err)...)
	default:
		s.logger.Error("operation failed", append(args, "error", err)...)
	}
	return err
}
