package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsListener counts dispatched events by name.
type MetricsListener struct {
	dispatched *prometheus.CounterVec
}

func NewMetricsListener(reg prometheus.Registerer) *MetricsListener {
	l := &MetricsListener{
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gulfpay_events_dispatched_total",
				Help: "Events dispatched on the bus by name",
			},
			[]string{"event"},
		),
	}
	reg.MustRegister(l.dispatched)
	return l
}

func (l *MetricsListener) Handle(_ context.Context, envelope Envelope) error {
	l.dispatched.WithLabelValues(envelope.Name).Inc()
	return nil
}
