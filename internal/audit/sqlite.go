package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"protokollo/pkg/sentinel"
)

// SQLiteStore persists audit events in the embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite constructs a SQLite-backed audit store.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// EnsureSchema creates the audit table if missing.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id              TEXT PRIMARY KEY,
			action          TEXT NOT NULL,
			registration_id TEXT NOT NULL,
			actor           TEXT NOT NULL,
			occurred_at     TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_audit_events_registration ON audit_events (registration_id)`)
	if err != nil {
		return fmt.Errorf("ensure audit_events schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, action, registration_id, actor, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		event.ID.String(), string(event.Action), event.RegistrationID.String(),
		event.Actor, event.OccurredAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, registration_id, actor, occurred_at
		FROM audit_events WHERE registration_id = ? ORDER BY occurred_at`,
		registrationID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			idStr, action, regStr, occurred string
			e                               Event
		)
		if err := rows.Scan(&idStr, &action, &regStr, &e.Actor, &occurred); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if e.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse audit event id %q: %w", idStr, err)
		}
		if e.RegistrationID, err = uuid.Parse(regStr); err != nil {
			return nil, fmt.Errorf("parse registration id %q: %w", regStr, err)
		}
		if e.OccurredAt, err = time.Parse(time.RFC3339Nano, occurred); err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", occurred, err)
		}
		e.Action = Action(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w: %w", sentinel.ErrUnavailable, err)
	}
	return out, nil
}
