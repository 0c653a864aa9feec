package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"protokollo/internal/registration/models"
	"protokollo/pkg/sentinel"
)

// PostgresAllocator persists counters in PostgreSQL. Each key is one row;
// the upsert takes the row lock, so allocations for the same key are
// linearized by the database while distinct keys never block each other.
type PostgresAllocator struct {
	pool   *pgxpool.Pool
	floors Floors
}

// NewPostgres constructs a PostgreSQL-backed allocator.
func NewPostgres(pool *pgxpool.Pool, floors Floors) *PostgresAllocator {
	return &PostgresAllocator{pool: pool, floors: floors}
}

// EnsureSchema creates the counter table if missing.
func (a *PostgresAllocator) EnsureSchema(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS numbering_sequences (
			kind       TEXT        NOT NULL,
			category   TEXT        NOT NULL,
			period     TEXT        NOT NULL,
			next_value BIGINT      NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (kind, category, period)
		)`)
	if err != nil {
		return fmt.Errorf("ensure numbering_sequences schema: %w", err)
	}
	return nil
}

// Next allocates in a single statement: the insert seeds a fresh counter at
// the floor, the conflict branch increments an existing one, and either way
// the allocated value comes back atomically. The commit happens before the
// caller persists the registration, which is exactly the burn-on-failure
// contract: a returned number is retired even if the append never lands.
func (a *PostgresAllocator) Next(ctx context.Context, kind Kind, category models.Category, period models.Period) (int64, error) {
	floor := a.floors.For(kind, category)
	var allocated int64
	err := a.pool.QueryRow(ctx, `
		INSERT INTO numbering_sequences (kind, category, period, next_value, updated_at)
		VALUES ($1, $2, $3, $4 + 1, now())
		ON CONFLICT (kind, category, period)
		DO UPDATE SET next_value = numbering_sequences.next_value + 1, updated_at = now()
		RETURNING next_value - 1`,
		string(kind), category.String(), period.String(), floor,
	).Scan(&allocated)
	if err != nil {
		return 0, fmt.Errorf("allocate %s number for %s/%s: %w: %w",
			kind, category, period, sentinel.ErrUnavailable, err)
	}
	return allocated, nil
}
