package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"protokollo/internal/registration/models"
	"protokollo/pkg/sentinel"
)

// SQLiteStore persists the ledger in an embedded SQLite database for the
// offline single-box deployment. Dates and timestamps are stored as text in
// ISO form, matching what the archive files keep.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite constructs a SQLite-backed ledger.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// EnsureSchema creates the registrations table if missing.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS registrations (
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
			deleted          INTEGER NOT NULL DEFAULT 0,
			deleted_at       TEXT,
			UNIQUE (category, entry_period, protocol_number)
		);
		CREATE INDEX IF NOT EXISTS idx_registrations_period ON registrations (entry_period)`)
	if err != nil {
		return fmt.Errorf("ensure registrations schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, reg *models.Registration) error {
	var offices, recipient any
	if len(reg.Offices) > 0 {
		offices = strings.Join(reg.Offices, ",")
	}
	if reg.Recipient != "" {
		recipient = reg.Recipient
	}
	var draft any
	if reg.DraftNumber != nil {
		draft = *reg.DraftNumber
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registrations (
			id, category, issuer, reference_number, subject, recipient, offices,
			protocol_number, draft_number, entry_date, entry_period, created_at, deleted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		reg.ID.String(), reg.Category.String(), reg.Issuer, reg.ReferenceNumber, reg.Subject,
		recipient, offices, reg.ProtocolNumber, draft,
		reg.EntryDate.String(), reg.Period().String(), reg.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("append registration %s: %w", reg.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("append registration %s: %w: %w", reg.ID, sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx, sqliteSelectColumns+` WHERE id = ? AND deleted = 0`, id.String())
	reg, err := scanSQLiteRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get registration %s: %w: %w", id, sentinel.ErrUnavailable, err)
	}
	return reg, nil
}

func (s *SQLiteStore) ListByPeriod(ctx context.Context, period models.Period, categories []models.Category) ([]*models.Registration, error) {
	query := sqliteSelectColumns + ` WHERE entry_period = ? AND deleted = 0`
	args := []any{period.String()}
	if len(categories) > 0 {
		placeholders := make([]string, len(categories))
		for i, c := range categories {
			placeholders[i] = "?"
			args = append(args, c.String())
		}
		query += ` AND category IN (` + strings.Join(placeholders, ",") + `)`
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations for %s: %w: %w", period, sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*models.Registration
	for rows.Next() {
		reg, err := scanSQLiteRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations for %s: %w: %w", period, sentinel.ErrUnavailable, err)
	}
	return out, nil
}

func (s *SQLiteStore) CountByPeriod(ctx context.Context, period models.Period) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE entry_period = ? AND deleted = 0`,
		period.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registrations for %s: %w: %w", period, sentinel.ErrUnavailable, err)
	}
	return count, nil
}

func (s *SQLiteStore) MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE registrations SET deleted = 1, deleted_at = ? WHERE id = ? AND deleted = 0`,
		at.UTC().Format(time.RFC3339Nano), id.String(),
	)
	if err != nil {
		return fmt.Errorf("delete registration %s: %w: %w", id, sentinel.ErrUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registration %s: %w", id, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

const sqliteSelectColumns = `
	SELECT id, category, issuer, reference_number, subject, recipient, offices,
	       protocol_number, draft_number, entry_date, created_at, deleted, deleted_at
	FROM registrations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRegistration(row rowScanner) (*models.Registration, error) {
	var (
		reg                 models.Registration
		idStr, category     string
		recipient, offices  sql.NullString
		draft               sql.NullInt64
		entryDate, created  string
		deleted             int
		deletedAt           sql.NullString
	)
	err := row.Scan(&idStr, &category, &reg.Issuer, &reg.ReferenceNumber, &reg.Subject,
		&recipient, &offices, &reg.ProtocolNumber, &draft,
		&entryDate, &created, &deleted, &deletedAt)
	if err != nil {
		return nil, err
	}
	reg.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse registration id %q: %w", idStr, err)
	}
	reg.Category = models.Category(category)
	if recipient.Valid {
		reg.Recipient = recipient.String
	}
	if offices.Valid && offices.String != "" {
		reg.Offices = strings.Split(offices.String, ",")
	}
	if draft.Valid {
		n := draft.Int64
		reg.DraftNumber = &n
	}
	reg.EntryDate, err = models.ParseDate(entryDate)
	if err != nil {
		return nil, err
	}
	reg.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	reg.Deleted = deleted != 0
	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, deletedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse deleted_at %q: %w", deletedAt.String, err)
		}
		reg.DeletedAt = &t
	}
	return &reg, nil
}
