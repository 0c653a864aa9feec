// Package ledger persists registrations. Appends are atomic and records are
// immutable afterwards except for the soft-delete flag; deletion never
// releases a number.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"protokollo/internal/registration/models"
)

// Store is the durable registration ledger. Implementations return
// sentinel.ErrNotFound for missing records, sentinel.ErrConflict for
// duplicate appends and wrap infrastructure failures in
// sentinel.ErrUnavailable.
type Store interface {
	// Append durably inserts the fully assembled record. Either the whole
	// record becomes visible to subsequent reads or none of it does.
	Append(ctx context.Context, reg *models.Registration) error
	// GetByID returns a live (non-deleted) registration.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	// ListByPeriod returns live registrations of the period, restricted to
	// the given categories when non-empty. Order is unspecified; the query
	// engine sorts.
	ListByPeriod(ctx context.Context, period models.Period, categories []models.Category) ([]*models.Registration, error)
	// CountByPeriod returns the number of live registrations in the period
	// across all categories.
	CountByPeriod(ctx context.Context, period models.Period) (int, error)
	// MarkDeleted soft-deletes a live registration.
	MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) error
}
