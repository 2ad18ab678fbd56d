package events_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/DanielPopoola/gulfpay/internal/application/events"
	"github.com/DanielPopoola/gulfpay/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	names []string
}

func (r *recorder) Handle(_ context.Context, envelope events.Envelope) error {
	r.names = append(r.names, envelope.Name)
	return nil
}

func TestBus_DeliversByName(t *testing.T) {
	bus := events.NewBus()
	specific := &recorder{}
	all := &recorder{}

	bus.Subscribe(events.NamePaymentSucceeded, specific)
	bus.SubscribeAll(all)

	ctx := context.Background()
	require.NoError(t, bus.Dispatch(ctx, events.PaymentSucceeded{Charge: &domain.Charge{}}))
	require.NoError(t, bus.Dispatch(ctx, events.WebhookCatchAll{Resource: "charge"}))

	assert.Equal(t, []string{events.NamePaymentSucceeded}, specific.names)
	assert.Equal(t, []string{events.NamePaymentSucceeded, events.NameWebhookCatchAll}, all.names)
}

func TestBus_EnvelopeMetadata(t *testing.T) {
	bus := events.NewBus()

	var got []events.Envelope
	bus.SubscribeAll(events.ListenerFunc(func(_ context.Context, envelope events.Envelope) error {
		got = append(got, envelope)
		return nil
	}))

	ctx := context.Background()
	require.NoError(t, bus.Dispatch(ctx, events.ResourceWebhook{Resource: "charge"}))
	require.NoError(t, bus.Dispatch(ctx, events.ResourceWebhook{Resource: "charge"}))

	require.Len(t, got, 2)
	assert.Equal(t, "gateway.webhook.charge", got[0].Name)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.False(t, got[0].OccurredAt.IsZero())
}

func TestBus_ListenerFailuresAreCollected(t *testing.T) {
	bus := events.NewBus()
	after := &recorder{}

	bus.SubscribeAll(events.ListenerFunc(func(context.Context, events.Envelope) error {
		panic("listener exploded")
	}))
	bus.SubscribeAll(events.ListenerFunc(func(context.Context, events.Envelope) error {
		return errors.New("sink down")
	}))
	bus.SubscribeAll(after)

	var err error
	assert.NotPanics(t, func() {
		err = bus.Dispatch(context.Background(), events.WebhookCatchAll{Resource: "charge"})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listener exploded")
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, []string{events.NameWebhookCatchAll}, after.names, "later listeners still run")
}

func TestBus_NilEvent(t *testing.T) {
	assert.Error(t, events.NewBus().Dispatch(context.Background(), nil))
}

func TestEnvelope_MarshalJSON(t *testing.T) {
	bus := events.NewBus()

	var data []byte
	bus.SubscribeAll(events.ListenerFunc(func(_ context.Context, envelope events.Envelope) error {
		var err error
		data, err = json.Marshal(envelope)
		return err
	}))

	require.NoError(t, bus.Dispatch(context.Background(), events.ChargeRetrievalFailed{
		ChargeID: "chg_1",
		Reason:   events.ReasonAuthentication,
		Err:      errors.New("401"),
	}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, events.NameChargeRetrievalFailed, decoded["name"])
	assert.Equal(t, "401", decoded["error"])
	assert.Equal(t, map[string]any{"charge_id": "chg_1", "reason": "authentication"}, decoded["event"])
	assert.NotEmpty(t, decoded["id"])
}

func TestLogListener(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	bus := events.NewBus()
	bus.SubscribeAll(events.NewLogListener(logger))

	require.NoError(t, bus.Dispatch(context.Background(), events.WebhookProcessingFailed{
		Resource: "charge",
		Err:      errors.New("boom"),
	}))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, events.NameWebhookProcessingFailed, line["event"])
	assert.Equal(t, "charge", line["resource"])
	assert.Equal(t, "boom", line["error"])
}

func TestMetricsListener(t *testing.T) {
	reg := prometheus.NewRegistry()
	bus := events.NewBus()
	bus.SubscribeAll(events.NewMetricsListener(reg))

	ctx := context.Background()
	require.NoError(t, bus.Dispatch(ctx, events.WebhookCatchAll{}))
	require.NoError(t, bus.Dispatch(ctx, events.WebhookCatchAll{}))

	expected := `
# HELP gulfpay_events_dispatched_total Events dispatched on the bus by name
# TYPE gulfpay_events_dispatched_total counter
gulfpay_events_dispatched_total{event="webhook.received"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "gulfpay_events_dispatched_total"))
}
