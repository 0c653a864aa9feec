package sequence

import (
	"context"
	"fmt"
	"sync"

	"protokollo/internal/registration/models"
)

// InMemoryAllocator keeps counters in process memory. It is the default for
// single-box deployments and the test double everywhere else. Counters carry
// their own lock so allocations for distinct keys proceed in parallel; the
// store lock only guards map access.
type InMemoryAllocator struct {
	mu       sync.RWMutex
	floors   Floors
	counters map[string]*counter
}

type counter struct {
	mu   sync.Mutex
	next int64
}

// NewInMemory creates an allocator with the given floors.
func NewInMemory(floors Floors) *InMemoryAllocator {
	return &InMemoryAllocator{
		floors:   floors,
		counters: make(map[string]*counter),
	}
}

// Next returns the next unused number for the key, creating the counter at
// its floor on first use.
func (a *InMemoryAllocator) Next(_ context.Context, kind Kind, category models.Category, period models.Period) (int64, error) {
	c := a.getOrCreate(kind, category, period)
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.next
	c.next++
	return n, nil
}

func (a *InMemoryAllocator) getOrCreate(kind Kind, category models.Category, period models.Period) *counter {
	key := counterKey(kind, category, period)

	a.mu.RLock()
	c := a.counters[key]
	a.mu.RUnlock()
	if c != nil {
		return c
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if c = a.counters[key]; c == nil {
		c = &counter{next: a.floors.For(kind, category)}
		a.counters[key] = c
	}
	return c
}

func counterKey(kind Kind, category models.Category, period models.Period) string {
	return fmt.Sprintf("%s:%s:%s", kind, category, period)
}
