// Package sequence implements the numbering allocator. One logical counter
// exists per (kind, category, period) key; a value handed out is retired
// forever, even when the submission that received it later fails. Gaps from
// burned numbers are accepted; reuse would race concurrent allocators.
package sequence

import (
	"context"

	"protokollo/internal/registration/models"
)

// Kind selects which counter family a key belongs to. Protocol counters run
// for every category; draft counters only for outgoing ones.
type Kind string

const (
	KindProtocol Kind = "protocol"
	KindDraft    Kind = "draft"
)

// Allocator hands out the next unused number for a counter scope. For a
// fixed key the returned values are unique, contiguous from the floor, and
// strictly increasing across concurrent callers. Distinct keys never contend.
type Allocator interface {
	Next(ctx context.Context, kind Kind, category models.Category, period models.Period) (int64, error)
}

// Floors resolves the starting value of a fresh counter. The floors mirror
// the physical registry books: signals protocol books start at 1, the other
// tiers continue from the 40000 range, draft books start at 1.
type Floors struct {
	SignalsProtocol int64
	DefaultProtocol int64
	Draft           int64
}

// DefaultFloors matches the books currently in use at the records office.
func DefaultFloors() Floors {
	return Floors{SignalsProtocol: 1, DefaultProtocol: 40001, Draft: 1}
}

// For returns the floor of a (kind, category) counter.
func (f Floors) For(kind Kind, category models.Category) int64 {
	if kind == KindDraft {
		return f.Draft
	}
	if category.Tier() == models.TierSignals {
		return f.SignalsProtocol
	}
	return f.DefaultProtocol
}
