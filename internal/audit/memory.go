package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore keeps audit events in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewInMemory creates an empty in-memory audit store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByRegistration(_ context.Context, registrationID uuid.UUID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.RegistrationID == registrationID {
			out = append(out, e)
		}
	}
	return out, nil
}

// RemoveByRegistrations extracts the events of the given registrations for
// the monthly archive. Returns the removed events.
func (s *InMemoryStore) RemoveByRegistrations(ids map[uuid.UUID]bool) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept, removed []Event
	for _, e := range s.events {
		if ids[e.RegistrationID] {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	s.events = kept
	return removed
}
