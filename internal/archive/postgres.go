package archive

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"protokollo/internal/registration/models"
	"protokollo/pkg/sentinel"
)

// PostgresStore archives into shadow tables in the same database, inside one
// transaction so a crash mid-run leaves the live ledger complete.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed archive store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the archive tables if missing. The archived tables
// mirror the live ones column for column so rows move with SELECT *.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS archived_registrations
			(LIKE registrations INCLUDING ALL);
		CREATE TABLE IF NOT EXISTS archived_audit_events
			(LIKE audit_events INCLUDING ALL);
		CREATE TABLE IF NOT EXISTS archive_batches (
			id          UUID        PRIMARY KEY,
			month       TEXT        NOT NULL,
			items_moved INTEGER     NOT NULL,
			ran_at      TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) MoveMonth(ctx context.Context, month models.Period) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin archive tx: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO archived_registrations
		SELECT * FROM registrations WHERE entry_period = $1`,
		month.String())
	if err != nil {
		return 0, fmt.Errorf("copy registrations to archive: %w", err)
	}
	moved := int(tag.RowsAffected())
	if moved > 0 {
		if _, err := tx.Exec(ctx, `
			INSERT INTO archived_audit_events
			SELECT ae.* FROM audit_events ae
			WHERE ae.registration_id IN
				(SELECT id FROM registrations WHERE entry_period = $1)`,
			month.String()); err != nil {
			return 0, fmt.Errorf("copy audit events to archive: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			DELETE FROM audit_events
			WHERE registration_id IN
				(SELECT id FROM registrations WHERE entry_period = $1)`,
			month.String()); err != nil {
			return 0, fmt.Errorf("remove archived audit events: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM registrations WHERE entry_period = $1`,
			month.String()); err != nil {
			return 0, fmt.Errorf("remove archived registrations: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit archive tx: %w: %w", sentinel.ErrUnavailable, err)
	}
	return moved, nil
}

func (s *PostgresStore) RecordBatch(ctx context.Context, batch Batch) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO archive_batches (id, month, items_moved, ran_at)
		VALUES ($1, $2, $3, $4)`,
		batch.ID, batch.Month.String(), batch.ItemsMoved, batch.RanAt)
	if err != nil {
		return fmt.Errorf("record archive batch: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, month, items_moved, ran_at FROM archive_batches ORDER BY ran_at`)
	if err != nil {
		return nil, fmt.Errorf("list archive batches: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var b Batch
		var month string
		if err := rows.Scan(&b.ID, &month, &b.ItemsMoved, &b.RanAt); err != nil {
			return nil, fmt.Errorf("scan archive batch: %w", err)
		}
		b.Month = models.Period(month)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list archive batches: %w: %w", sentinel.ErrUnavailable, err)
	}
	return out, nil
}
