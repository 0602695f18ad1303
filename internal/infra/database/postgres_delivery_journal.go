// internal/infra/database/postgres_delivery_journal.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"homework_status_bot/internal/domain/notification"
)

const createDeliveriesTable = `CREATE TABLE IF NOT EXISTS notification_deliveries (
	id         BIGSERIAL PRIMARY KEY,
	kind       TEXT        NOT NULL,
	chat_id    TEXT        NOT NULL,
	text       TEXT        NOT NULL,
	delivered  BOOLEAN     NOT NULL,
	error      TEXT,
	created_at TIMESTAMPTZ NOT NULL
)`

// PostgresDeliveryJournal appends every delivery attempt to notification_deliveries.
type PostgresDeliveryJournal struct {
	db *sql.DB
}

func NewPostgresDeliveryJournal(db *sql.DB) *PostgresDeliveryJournal {
	return &PostgresDeliveryJournal{db: db}
}

// EnsureSchema creates the journal table if it does not exist yet.
func (j *PostgresDeliveryJournal) EnsureSchema(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, createDeliveriesTable); err != nil {
		return fmt.Errorf("error creating notification_deliveries table: %w", err)
	}
	return nil
}

func (j *PostgresDeliveryJournal) Append(ctx context.Context, d *notification.Delivery) error {
	query := `INSERT INTO notification_deliveries (kind, chat_id, text, delivered, error, created_at)
               VALUES ($1, $2, $3, $4, $5, $6)`
	errText := sql.NullString{String: d.Error, Valid: d.Error != ""}
	_, err := j.db.ExecContext(ctx, query, d.Kind, d.ChatID, d.Text, d.Delivered, errText, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error appending delivery: %w", err)
	}
	return nil
}
