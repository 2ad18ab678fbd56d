package postgres

import (
	"time"

	"github.com/google/uuid"
)

// EventRecord is one row of gateway_events. ChargeID and Resource are pulled out
// of the payload so they can be queried without touching the JSON.
type EventRecord struct {
	ID         uuid.UUID
	Name       string
	ChargeID   *string
	Resource   *string
	Payload    []byte
	Error      *string
	OccurredAt time.Time
}
