package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"railway/entity"
)

// PostgresRepository keeps a raw copy of every published booking event, so
// the lifecycle of a ticket can be reconstructed after the fact.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) StoreEvent(ctx context.Context, event entity.AuditEvent) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO events (event_id, published_at, event_name, event_payload)
		VALUES (:event_id, :published_at, :event_name, :event_payload)
	`, event)

	var postgresErr *pq.Error
	if errors.As(err, &postgresErr) && postgresErr.Code.Name() == "unique_violation" {
		// handling re-delivery
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not store %s event in audit log: %w", event.ID, err)
	}

	return nil
}

func (r *PostgresRepository) GetEvents(ctx context.Context) ([]entity.AuditEvent, error) {
	var events []entity.AuditEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT event_id, published_at, event_name, event_payload
		FROM events
		ORDER BY published_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("could not get events from audit log: %w", err)
	}

	return events, nil
}
