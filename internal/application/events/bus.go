package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Envelope is what listeners receive: the event plus delivery metadata.
type Envelope struct {
	ID         uuid.UUID
	Name       string
	OccurredAt time.Time
	Event      Event
}

// Err returns the error carried by failure events.
func (e Envelope) Err() error {
	if f, ok := e.Event.(failure); ok {
		return f.Failure()
	}
	return nil
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	out := struct {
		ID         uuid.UUID `json:"id"`
		Name       string    `json:"name"`
		OccurredAt time.Time `json:"occurred_at"`
		Event      Event     `json:"event"`
		Error      string    `json:"error,omitempty"`
	}{
		ID:         e.ID,
		Name:       e.Name,
		OccurredAt: e.OccurredAt,
		Event:      e.Event,
	}
	if err := e.Err(); err != nil {
		out.Error = err.Error()
	}
	return json.Marshal(out)
}

type Listener interface {
	Handle(ctx context.Context, envelope Envelope) error
}

type ListenerFunc func(ctx context.Context, envelope Envelope) error

func (f ListenerFunc) Handle(ctx context.Context, envelope Envelope) error {
	return f(ctx, envelope)
}

type subscription struct {
	name     string
	listener Listener
}

// Bus delivers events synchronously to listeners in subscription order. Every
// listener runs even when an earlier one fails.
type Bus struct {
	mu            sync.RWMutex
	subscriptions []subscription
	now           func() time.Time
}

func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe registers a listener for one event name.
func (b *Bus) Subscribe(name string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = append(b.subscriptions, subscription{name: name, listener: listener})
}

// SubscribeAll registers a listener for every event.
func (b *Bus) SubscribeAll(listener Listener) {
	b.Subscribe("", listener)
}

func (b *Bus) Dispatch(ctx context.Context, event Event) error {
	if event == nil {
		return errors.New("dispatch: nil event")
	}

	envelope := Envelope{
		ID:         uuid.New(),
		Name:       event.Name(),
		OccurredAt: b.now().UTC(),
		Event:      event,
	}

	b.mu.RLock()
	targets := make([]Listener, 0, len(b.subscriptions))
	for _, sub := range b.subscriptions {
		if sub.name == "" || sub.name == envelope.Name {
			targets = append(targets, sub.listener)
		}
	}
	b.mu.RUnlock()

	var errs []error
	for _, listener := range targets {
		if err := deliver(ctx, listener, envelope); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(ctx context.Context, listener Listener, envelope Envelope) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("listener for %s panicked: %v", envelope.Name, rec)
		}
	}()

	if err := listener.Handle(ctx, envelope); err != nil {
		return fmt.Errorf("listener for %s: %w", envelope.Name, err)
	}
	return nil
}
