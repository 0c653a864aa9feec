package archive

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"protokollo/internal/audit"
	"protokollo/internal/registration/models"
	"protokollo/internal/registration/store/ledger"
)

// InMemoryStore archives by pulling records out of the in-memory ledger and
// audit stores into local slices. It exists for the memory backend and for
// service tests; durability comes from the SQL stores.
type InMemoryStore struct {
	mu      sync.Mutex
	ledger  *ledger.InMemoryStore
	audit   *audit.InMemoryStore
	records []*models.Registration
	events  []audit.Event
	batches []Batch
}

// NewInMemory wires the archive to the live in-memory stores.
func NewInMemory(l *ledger.InMemoryStore, a *audit.InMemoryStore) *InMemoryStore {
	return &InMemoryStore{ledger: l, audit: a}
}

func (s *InMemoryStore) MoveMonth(_ context.Context, month models.Period) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := s.ledger.RemovePeriod(month)
	if len(moved) == 0 {
		return 0, nil
	}
	ids := make(map[uuid.UUID]bool, len(moved))
	for _, reg := range moved {
		ids[reg.ID] = true
	}
	s.records = append(s.records, moved...)
	s.events = append(s.events, s.audit.RemoveByRegistrations(ids)...)
	return len(moved), nil
}

func (s *InMemoryStore) RecordBatch(_ context.Context, batch Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	return nil
}

func (s *InMemoryStore) ListBatches(_ context.Context) ([]Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Batch(nil), s.batches...), nil
}

// ArchivedCount reports how many registrations live in the archive. Test
// helper.
func (s *InMemoryStore) ArchivedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
