package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/gulfpay/internal/application/events"
	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "gulfpay.events"

// Header keys set on every published message.
const (
	HeaderEventID    = "event_id"
	HeaderEventName  = "event_name"
	HeaderOccurredAt = "occurred_at"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
}

// Publisher forwards bus events to Kafka. Messages are keyed by charge ID, or by
// resource for webhook events, so events about one charge stay ordered.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

func NewPublisher(writer messageWriter, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

func (p *Publisher) Handle(ctx context.Context, envelope events.Envelope) error {
	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", envelope.Name, err)
	}

	msg := kafka.Message{
		Key:   []byte(messageKey(envelope)),
		Value: value,
		Time:  envelope.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(envelope.ID.String())},
			{Key: HeaderEventName, Value: []byte(envelope.Name)},
			{Key: HeaderOccurredAt, Value: []byte(envelope.OccurredAt.Format(time.RFC3339Nano))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			"event_id", envelope.ID.String(),
			"event", envelope.Name,
			"error", err,
		)
		return fmt.Errorf("publish %s: %w", envelope.Name, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func messageKey(envelope events.Envelope) string {
	switch e := envelope.Event.(type) {
	case events.ChargeRetrievalFailed:
		return e.ChargeID
	case events.PaymentSucceeded:
		if e.Charge != nil {
			return e.Charge.ID
		}
	case events.PaymentFailed:
		if e.Charge != nil {
			return e.Charge.ID
		}
	case events.WebhookReceived:
		return e.Resource
	case events.ResourceWebhook:
		return e.Resource
	case events.WebhookCatchAll:
		return e.Resource
	case events.WebhookProcessingFailed:
		return e.Resource
	}
	return envelope.Name
}
