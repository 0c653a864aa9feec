// Package audit records who did what to the registry. Events are append-only;
// the trail is what reconciles the electronic ledger against the physical
// books during inspections.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action identifies the audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// Event is one audit trail entry.
type Event struct {
	ID             uuid.UUID `json:"id"`
	Action         Action    `json:"action"`
	RegistrationID uuid.UUID `json:"registrationId"`
	Actor          string    `json:"actor"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Store is the append-only audit trail.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]Event, error)
}

// NewEvent builds an event with a fresh ID.
func NewEvent(action Action, registrationID uuid.UUID, actor string, at time.Time) Event {
	if actor == "" {
		actor = "unknown"
	}
	return Event{
		ID:             uuid.New(),
		Action:         action,
		RegistrationID: registrationID,
		Actor:          actor,
		OccurredAt:     at,
	}
}
