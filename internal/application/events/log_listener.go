package events

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/gulfpay/internal/domain"
)

// LogListener writes one structured line per event. Failure events log at warn.
type LogListener struct {
	logger *slog.Logger
}

func NewLogListener(logger *slog.Logger) *LogListener {
	return &LogListener{logger: logger}
}

func (l *LogListener) Handle(ctx context.Context, envelope Envelope) error {
	attrs := []any{
		"event_id", envelope.ID.String(),
		"event", envelope.Name,
	}

	switch e := envelope.Event.(type) {
	case ChargeRetrievalFailed:
		attrs = append(attrs, "charge_id", e.ChargeID, "reason", e.Reason)
	case PaymentSucceeded:
		attrs = append(attrs, "charge_id", chargeID(e.Charge))
	case PaymentFailed:
		attrs = append(attrs, "charge_id", chargeID(e.Charge), "message", e.Message)
	case WebhookReceived:
		attrs = append(attrs, "resource", e.Resource, "ip", e.IP)
	case ResourceWebhook:
		attrs = append(attrs, "resource", e.Resource)
	case WebhookCatchAll:
		attrs = append(attrs, "resource", e.Resource)
	case WebhookProcessingFailed:
		attrs = append(attrs, "resource", e.Resource)
	}

	if err := envelope.Err(); err != nil {
		l.logger.WarnContext(ctx, "event dispatched", append(attrs, "error", err)...)
		return nil
	}

	l.logger.InfoContext(ctx, "event dispatched", attrs...)
	return nil
}

func chargeID(charge *domain.Charge) string {
	if charge == nil {
		return ""
	}
	return charge.ID
}
