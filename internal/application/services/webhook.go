package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/DanielPopoola/gulfpay/internal/application/events"
)

const unknownResource = "unknown"

// Resource names become part of event names, so only word characters survive.
var resourceNameFilter = regexp.MustCompile(`[^A-Za-z0-9_]`)

func SanitizeResource(name string) string {
	return resourceNameFilter.ReplaceAllString(name, "")
}

// WebhookService fans an inbound webhook out to the event bus. It never fails:
// the sender always gets an acknowledgement.
type WebhookService struct {
	dispatcher events.Dispatcher
	allowed    map[string]struct{}
	logger     *slog.Logger
}

// NewWebhookService sanitizes the allow-list the same way resource names are
// sanitized; entries that sanitize to nothing are dropped.
func NewWebhookService(
	dispatcher events.Dispatcher,
	allowedResources []string,
	logger *slog.Logger,
) *WebhookService {
	allowed := make(map[string]struct{}, len(allowedResources))
	for _, name := range allowedResources {
		if clean := SanitizeResource(name); clean != "" {
			allowed[clean] = struct{}{}
		}
	}

	return &WebhookService{
		dispatcher: dispatcher,
		allowed:    allowed,
		logger:     logger,
	}
}

// Handle dispatches, in order: the generic received event, the resource event
// when the resource is allowed, and the catch-all event.
func (s *WebhookService) Handle(ctx context.Context, payload map[string]any, ip string) {
	resource := unknownResource
	if object, ok := payload["object"].(string); ok {
		resource = object
	}
	resource = SanitizeResource(resource)

	if err := s.dispatch(ctx, events.WebhookReceived{Resource: resource, Payload: payload, IP: ip}); err != nil {
		s.logger.ErrorContext(ctx, "webhook received event failed", "resource", resource, "error", err)
	}

	if len(s.allowed) == 0 {
		return
	}

	if err := s.fanOut(ctx, resource, payload); err != nil {
		s.logger.WarnContext(ctx, "webhook processing failed", "resource", resource, "error", err)

		failure := events.WebhookProcessingFailed{Resource: resource, Payload: payload, Err: err}
		if err := s.dispatch(ctx, failure); err != nil {
			s.logger.ErrorContext(ctx, "webhook failure event failed", "resource", resource, "error", err)
		}
	}
}

// fanOut sends the catch-all event even when the resource event fails.
func (s *WebhookService) fanOut(ctx context.Context, resource string, payload map[string]any) error {
	var errs []error
	if _, ok := s.allowed[resource]; ok {
		if err := s.dispatch(ctx, events.ResourceWebhook{Resource: resource, Payload: payload}); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.dispatch(ctx, events.WebhookCatchAll{Resource: resource, Payload: payload}); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *WebhookService) dispatch(ctx context.Context, event events.Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("dispatch %s panicked: %v", event.Name(), rec)
		}
	}()
	return s.dispatcher.Dispatch(ctx, event)
}
