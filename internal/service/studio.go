package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/lock"
	"github.com/codec25/Studio-flow/internal/model"
	"github.com/codec25/Studio-flow/internal/store"
)

// subscriptionRefillCredits is the fixed monthly quota a subscribed
// student's balance is reset to. A reset, not a top-up: unused credits
// from the previous month are intentionally discarded.
const subscriptionRefillCredits = 4

// lockTTL bounds how long a booking critical section may hold its keys.
const lockTTL = 10 * time.Second

// Studio owns the in-memory state document and is the single entry point
// for every operation. The mutex serializes all access within one
// instance; the Locker extends the booking critical section across
// instances sharing one backing store.
type Studio struct {
	mu     sync.Mutex
	state  *model.State
	store  store.Store
	locker lock.Locker
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Studio at construction time.
type Option func(*Studio)

// WithClock injects a deterministic clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Studio) { s.now = now }
}

// NewStudio loads the persisted snapshot and builds the service. A load
// failure is not fatal: the service starts from an empty state, matching
// the "load failures mean start fresh" contract of the persistence layer.
func NewStudio(ctx context.Context, st store.Store, locker lock.Locker, logger *zap.Logger, opts ...Option) *Studio {
	s := &Studio{
		store:  st,
		locker: locker,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := st.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load state, starting empty", zap.Error(err))
		loaded = model.EmptyState()
	}
	s.state = loaded

	s.mu.Lock()
	refilled := s.refillLocked(s.now())
	if refilled > 0 {
		s.persist(ctx, "startup refill")
	}
	s.mu.Unlock()

	return s
}

// persist saves the current state best-effort: the in-memory document
// stays authoritative and a failed save only logs a warning. Operations
// that need stronger guarantees roll back explicitly.
func (s *Studio) persist(ctx context.Context, op string) {
	if err := s.store.Save(ctx, s.state); err != nil {
		s.logger.Warn("Failed to save state",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// persistStrict saves and reports the failure instead of swallowing it.
func (s *Studio) persistStrict(ctx context.Context, op string) error {
	if err := s.store.Save(ctx, s.state); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return nil
}

// MonthKey formats the "YYYY-MM" key gating the once-per-month refill.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
