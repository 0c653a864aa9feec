package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"protokollo/internal/registration/models"
	"protokollo/pkg/sentinel"
)

// PostgresStore persists the ledger in PostgreSQL. The entry period is
// stored denormalized so the write path and the read path select rows by the
// same key the allocator used.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed ledger.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the registrations table if missing. The unique
// constraint on (category, entry_period, protocol_number) backs the
// allocator's guarantee with a hard stop at the storage layer.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS registrations (
			id               UUID        PRIMARY KEY,
			category         TEXT        NOT NULL,
			issuer           TEXT        NOT NULL,
			reference_number TEXT        NOT NULL,
			subject          TEXT        NOT NULL,
			recipient        TEXT,
			offices          TEXT,
			protocol_number  BIGINT      NOT NULL,
			draft_number     BIGINT,
			entry_date       DATE        NOT NULL,
			entry_period     TEXT        NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL,
			deleted          BOOLEAN     NOT NULL DEFAULT FALSE,
			deleted_at       TIMESTAMPTZ,
			UNIQUE (category, entry_period, protocol_number)
		);
		CREATE INDEX IF NOT EXISTS idx_registrations_period ON registrations (entry_period)`)
	if err != nil {
		return fmt.Errorf("ensure registrations schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, reg *models.Registration) error {
	var offices *string
	if len(reg.Offices) > 0 {
		joined := strings.Join(reg.Offices, ",")
		offices = &joined
	}
	var recipient *string
	if reg.Recipient != "" {
		recipient = &reg.Recipient
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO registrations (
			id, category, issuer, reference_number, subject, recipient, offices,
			protocol_number, draft_number, entry_date, entry_period, created_at, deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE)`,
		reg.ID, reg.Category.String(), reg.Issuer, reg.ReferenceNumber, reg.Subject,
		recipient, offices, reg.ProtocolNumber, reg.DraftNumber,
		reg.EntryDate.Time(), reg.Period().String(), reg.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("append registration %s: %w", reg.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("append registration %s: %w: %w", reg.ID, sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	row := s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1 AND NOT deleted`, id)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get registration %s: %w: %w", id, sentinel.ErrUnavailable, err)
	}
	return reg, nil
}

func (s *PostgresStore) ListByPeriod(ctx context.Context, period models.Period, categories []models.Category) ([]*models.Registration, error) {
	query := selectColumns + ` WHERE entry_period = $1 AND NOT deleted`
	args := []any{period.String()}
	if len(categories) > 0 {
		names := make([]string, len(categories))
		for i, c := range categories {
			names[i] = c.String()
		}
		query += ` AND category = ANY($2)`
		args = append(args, names)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations for %s: %w: %w", period, sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
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

func (s *PostgresStore) CountByPeriod(ctx context.Context, period models.Period) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE entry_period = $1 AND NOT deleted`,
		period.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registrations for %s: %w: %w", period, sentinel.ErrUnavailable, err)
	}
	return count, nil
}

func (s *PostgresStore) MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE registrations SET deleted = TRUE, deleted_at = $2 WHERE id = $1 AND NOT deleted`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("delete registration %s: %w: %w", id, sentinel.ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT id, category, issuer, reference_number, subject, recipient, offices,
	       protocol_number, draft_number, entry_date, created_at, deleted, deleted_at
	FROM registrations`

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var (
		reg       models.Registration
		category  string
		recipient *string
		offices   *string
		entryDate time.Time
	)
	err := row.Scan(&reg.ID, &category, &reg.Issuer, &reg.ReferenceNumber, &reg.Subject,
		&recipient, &offices, &reg.ProtocolNumber, &reg.DraftNumber,
		&entryDate, &reg.CreatedAt, &reg.Deleted, &reg.DeletedAt)
	if err != nil {
		return nil, err
	}
	reg.Category = models.Category(category)
	if recipient != nil {
		reg.Recipient = *recipient
	}
	if offices != nil && *offices != "" {
		reg.Offices = strings.Split(*offices, ",")
	}
	reg.EntryDate = models.DateOf(entryDate)
	return &reg, nil
}
