package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/gulfpay/internal/application/events"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrEventNotFound = errors.New("event not found")

// EventRepository persists bus events. It is also an events.Listener, so it can
// be subscribed to the bus directly.
type EventRepository struct {
	q      Executor
	logger *slog.Logger
}

func NewEventRepository(db *DB, logger *slog.Logger) *EventRepository {
	return &EventRepository{q: db.Pool, logger: logger}
}

// Handle stores the envelope. Redelivery of the same envelope is a no-op.
func (r *EventRepository) Handle(ctx context.Context, envelope events.Envelope) error {
	record, err := toEventRecord(envelope)
	if err != nil {
		return err
	}
	return r.Create(ctx, record)
}

func (r *EventRepository) Create(ctx context.Context, record *EventRecord) error {
	query := `
		INSERT INTO gateway_events (id, name, charge_id, resource, payload, error, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		record.ID,
		record.Name,
		record.ChargeID,
		record.Resource,
		record.Payload,
		record.Error,
		record.OccurredAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			r.logger.DebugContext(ctx, "event already stored", "event_id", record.ID)
			return nil
		}
		return fmt.Errorf("failed to store event: %w", err)
	}

	return nil
}

// FindByID retrieves a stored event
func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*EventRecord, error) {
	query := `
		SELECT id, name, charge_id, resource, payload, error, occurred_at
		FROM gateway_events WHERE id = $1
	`

	row := r.q.QueryRow(ctx, query, id)
	return scanEvent(row)
}

// FindByChargeID returns the events recorded for a charge, oldest first
func (r *EventRepository) FindByChargeID(ctx context.Context, chargeID string) ([]*EventRecord, error) {
	query := `
		SELECT id, name, charge_id, resource, payload, error, occurred_at
		FROM gateway_events WHERE charge_id = $1
		ORDER BY occurred_at ASC
	`

	return r.list(ctx, query, chargeID)
}

// FindByName returns the most recent events with the given name
func (r *EventRepository) FindByName(ctx context.Context, name string, limit int) ([]*EventRecord, error) {
	query := `
		SELECT id, name, charge_id, resource, payload, error, occurred_at
		FROM gateway_events WHERE name = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	return r.list(ctx, query, name, limit)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]*EventRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var records []*EventRecord
	for rows.Next() {
		record, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return records, nil
}

func scanEvent(row pgx.Row) (*EventRecord, error) {
	var m EventRecord
	err := row.Scan(&m.ID, &m.Name, &m.ChargeID, &m.Resource, &m.Payload, &m.Error, &m.OccurredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return &m, nil
}
