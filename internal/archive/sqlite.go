package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"protokollo/internal/registration/models"
	"protokollo/pkg/sentinel"
)

// SQLiteStore archives into shadow tables in the embedded database, inside
// one transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite constructs a SQLite-backed archive store.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// EnsureSchema creates the archive tables if missing. Column lists are
// spelled out because SQLite has no CREATE TABLE LIKE.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS archived_registrations (
			id               TEXT    PRIMARY KEY,
			category         TEXT    NOT NULL,
			issuer           TEXT    NOT NULL,
			reference_number TEXT    NOT NULL,
			subject          TEXT    NOT NULL,
			recipient        TEXT,
			offices          TEXT,
			protocol_number  INTEGER NOT NULL,
			draft_number     INTEGER,
			entry_date       TEXT    NOT NULL,
			entry_period     TEXT    NOT NULL,
			created_at       TEXT    NOT NULL,
			deleted          INTEGER NOT NULL,
			deleted_at       TEXT
		);
		CREATE TABLE IF NOT EXISTS archived_audit_events (
			id              TEXT PRIMARY KEY,
			action          TEXT NOT NULL,
			registration_id TEXT NOT NULL,
			actor           TEXT NOT NULL,
			occurred_at     TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS archive_batches (
			id          TEXT    PRIMARY KEY,
			month       TEXT    NOT NULL,
			items_moved INTEGER NOT NULL,
			ran_at      TEXT    NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) MoveMonth(ctx context.Context, month models.Period) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin archive tx: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO archived_registrations
		SELECT * FROM registrations WHERE entry_period = ?`,
		month.String())
	if err != nil {
		return 0, fmt.Errorf("copy registrations to archive: %w", err)
	}
	movedRows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count archived registrations: %w", err)
	}
	moved := int(movedRows)
	if moved > 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO archived_audit_events
			SELECT ae.* FROM audit_events ae
			WHERE ae.registration_id IN
				(SELECT id FROM registrations WHERE entry_period = ?)`,
			month.String()); err != nil {
			return 0, fmt.Errorf("copy audit events to archive: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM audit_events
			WHERE registration_id IN
				(SELECT id FROM registrations WHERE entry_period = ?)`,
			month.String()); err != nil {
			return 0, fmt.Errorf("remove archived audit events: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM registrations WHERE entry_period = ?`,
			month.String()); err != nil {
			return 0, fmt.Errorf("remove archived registrations: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit archive tx: %w: %w", sentinel.ErrUnavailable, err)
	}
	return moved, nil
}

func (s *SQLiteStore) RecordBatch(ctx context.Context, batch Batch) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO archive_batches (id, month, items_moved, ran_at)
		VALUES (?, ?, ?, ?)`,
		batch.ID.String(), batch.Month.String(), batch.ItemsMoved,
		batch.RanAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record archive batch: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, month, items_moved, ran_at FROM archive_batches ORDER BY ran_at`)
	if err != nil {
		return nil, fmt.Errorf("list archive batches: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var (
			b           Batch
			idStr       string
			month       string
			ranAt       string
		)
		if err := rows.Scan(&idStr, &month, &b.ItemsMoved, &ranAt); err != nil {
			return nil, fmt.Errorf("scan archive batch: %w", err)
		}
		if b.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse archive batch id %q: %w", idStr, err)
		}
		if b.RanAt, err = time.Parse(time.RFC3339Nano, ranAt); err != nil {
			return nil, fmt.Errorf("parse archive batch time %q: %w", ranAt, err)
		}
		b.Month = models.Period(month)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list archive batches: %w: %w", sentinel.ErrUnavailable, err)
	}
	return out, nil
}
