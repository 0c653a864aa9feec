package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"protokollo/pkg/sentinel"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the audit table if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id              UUID        PRIMARY KEY,
			action          TEXT        NOT NULL,
			registration_id UUID        NOT NULL,
			actor           TEXT        NOT NULL,
			occurred_at     TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_audit_events_registration ON audit_events (registration_id)`)
	if err != nil {
		return fmt.Errorf("ensure audit_events schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_events (id, action, registration_id, actor, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, string(event.Action), event.RegistrationID, event.Actor, event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, action, registration_id, actor, occurred_at
		FROM audit_events WHERE registration_id = $1 ORDER BY occurred_at`,
		registrationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var action string
		if err := rows.Scan(&e.ID, &action, &e.RegistrationID, &e.Actor, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w: %w", sentinel.ErrUnavailable, err)
	}
	return out, nil
}
