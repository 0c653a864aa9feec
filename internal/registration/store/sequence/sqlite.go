package sequence

import (
	"context"
	"database/sql"
	"fmt"

	"protokollo/internal/registration/models"
	"protokollo/pkg/sentinel"
)

// SQLiteAllocator persists counters in the embedded SQLite database used by
// the offline single-box deployment. SQLite serializes writers, which gives
// the per-key linearizability for free.
type SQLiteAllocator struct {
	db     *sql.DB
	floors Floors
}

// NewSQLite constructs a SQLite-backed allocator.
func NewSQLite(db *sql.DB, floors Floors) *SQLiteAllocator {
	return &SQLiteAllocator{db: db, floors: floors}
}

// EnsureSchema creates the counter table if missing.
func (a *SQLiteAllocator) EnsureSchema(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS numbering_sequences (
			kind       TEXT    NOT NULL,
			category   TEXT    NOT NULL,
			period     TEXT    NOT NULL,
			next_value INTEGER NOT NULL,
			updated_at TEXT    NOT NULL,
			PRIMARY KEY (kind, category, period)
		)`)
	if err != nil {
		return fmt.Errorf("ensure numbering_sequences schema: %w", err)
	}
	return nil
}

// Next allocates with the same single-statement upsert as the PostgreSQL
// backend.
func (a *SQLiteAllocator) Next(ctx context.Context, kind Kind, category models.Category, period models.Period) (int64, error) {
	floor := a.floors.For(kind, category)
	var allocated int64
	err := a.db.QueryRowContext(ctx, `
		INSERT INTO numbering_sequences (kind, category, period, next_value, updated_at)
		VALUES (?, ?, ?, ? + 1, datetime('now'))
		ON CONFLICT (kind, category, period)
		DO UPDATE SET next_value = next_value + 1, updated_at = datetime('now')
		RETURNING next_value - 1`,
		string(kind), category.String(), period.String(), floor,
	).Scan(&allocated)
	if err != nil {
		return 0, fmt.Errorf("allocate %s number for %s/%s: %w: %w",
			kind, category, period, sentinel.ErrUnavailable, err)
	}
	return allocated, nil
}
