// Package archive implements the monthly closing of the registry: all
// registrations of the previous calendar month, together with their audit
// events, move out of the live ledger into archive storage. Counters are
// untouched; a period's numbering history survives in the archive.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"protokollo/internal/registration/models"
)

// Batch records one archive run.
type Batch struct {
	ID         uuid.UUID     `json:"id"`
	Month      models.Period `json:"month"`
	ItemsMoved int           `json:"itemsMoved"`
	RanAt      time.Time     `json:"ranAt"`
}

// Store moves a month of records into archive storage atomically: either the
// whole month moves or nothing does.
type Store interface {
	MoveMonth(ctx context.Context, month models.Period) (int, error)
	RecordBatch(ctx context.Context, batch Batch) error
	ListBatches(ctx context.Context) ([]Batch, error)
}

// Service runs the monthly archive.
type Service struct {
	store Store
	now   func() time.Time
}

// New wires the archive service.
func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run archives the previous calendar month and records the batch. Running
// twice for the same month moves zero items the second time.
func (s *Service) Run(ctx context.Context) (Batch, error) {
	month := models.PeriodOf(s.now()).Previous()
	moved, err := s.store.MoveMonth(ctx, month)
	if err != nil {
		return Batch{}, fmt.Errorf("archive month %s: %w", month, err)
	}
	batch := Batch{
		ID:         uuid.New(),
		Month:      month,
		ItemsMoved: moved,
		RanAt:      s.now().UTC(),
	}
	if err := s.store.RecordBatch(ctx, batch); err != nil {
		return Batch{}, fmt.Errorf("record archive batch for %s: %w", month, err)
	}
	return batch, nil
}

// History lists past archive runs.
func (s *Service) History(ctx context.Context) ([]Batch, error) {
	return s.store.ListBatches(ctx)
}
