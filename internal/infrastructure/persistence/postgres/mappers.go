package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/DanielPopoola/gulfpay/internal/application/events"
)

func toEventRecord(envelope events.Envelope) (*EventRecord, error) {
	payload, err := json.Marshal(envelope.Event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", envelope.Name, err)
	}

	record := &EventRecord{
		ID:         envelope.ID,
		Name:       envelope.Name,
		Payload:    payload,
		OccurredAt: envelope.OccurredAt,
	}

	switch e := envelope.Event.(type) {
	case events.ChargeRetrievalFailed:
		record.ChargeID = optional(e.ChargeID)
	case events.PaymentSucceeded:
		if e.Charge != nil {
			record.ChargeID = optional(e.Charge.ID)
		}
	case events.PaymentFailed:
		if e.Charge != nil {
			record.ChargeID = optional(e.Charge.ID)
		}
	case events.WebhookReceived:
		record.Resource = optional(e.Resource)
	case events.ResourceWebhook:
		record.Resource = optional(e.Resource)
	case events.WebhookCatchAll:
		record.Resource = optional(e.Resource)
	case events.WebhookProcessingFailed:
		record.Resource = optional(e.Resource)
	}

	if err := envelope.Err(); err != nil {
		record.Error = optional(err.Error())
	}

	return record, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
