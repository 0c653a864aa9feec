package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"protokollo/internal/registration/models"
	"protokollo/pkg/sentinel"
)

// InMemoryStore keeps the ledger in process memory. It favors clarity over
// performance and doubles as the test fixture for the service layer.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.Registration
}

// NewInMemory creates an empty in-memory ledger.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[uuid.UUID]*models.Registration)}
}

func (s *InMemoryStore) Append(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[reg.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *reg
	cp.Offices = append([]string(nil), reg.Offices...)
	s.records[reg.ID] = &cp
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id uuid.UUID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.records[id]
	if !ok || reg.Deleted {
		return nil, sentinel.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

func (s *InMemoryStore) ListByPeriod(_ context.Context, period models.Period, categories []models.Category) ([]*models.Registration, error) {
	wanted := make(map[models.Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Registration
	for _, reg := range s.records {
		if reg.Deleted || reg.Period() != period {
			continue
		}
		if len(wanted) > 0 && !wanted[reg.Category] {
			continue
		}
		cp := *reg
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemoryStore) CountByPeriod(_ context.Context, period models.Period) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, reg := range s.records {
		if !reg.Deleted && reg.Period() == period {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) MarkDeleted(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.records[id]
	if !ok || reg.Deleted {
		return sentinel.ErrNotFound
	}
	reg.Deleted = true
	t := at
	reg.DeletedAt = &t
	return nil
}

// RemovePeriod extracts every record of a period, deleted ones included, for
// the monthly archive. Returns the removed records.
func (s *InMemoryStore) RemovePeriod(period models.Period) []*models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []*models.Registration
	for id, reg := range s.records {
		if reg.Period() == period {
			removed = append(removed, reg)
			delete(s.records, id)
		}
	}
	return removed
}
