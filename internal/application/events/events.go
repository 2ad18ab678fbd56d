package events

import (
	"context"

	"github.com/DanielPopoola/gulfpay/internal/domain"
)

const (
	NameWebhookReceived         = "gateway.webhook_received"
	NameWebhookCatchAll         = "webhook.received"
	NameWebhookProcessingFailed = "gateway.webhook_failed"
	NameChargeRetrievalFailed   = "gateway.charge.retrieval_failed"
	NamePaymentSucceeded        = "gateway.payment.succeeded"
	NamePaymentFailed           = "gateway.payment.failed"

	resourceWebhookPrefix = "gateway.webhook."
)

// Retrieval failure reasons carried by ChargeRetrievalFailed.
const (
	ReasonAuthentication = "authentication"
	ReasonInvalidRequest = "invalid_request"
	ReasonAPIError       = "api_error"
)

type Event interface {
	Name() string
}

// failure is implemented by events that carry the error which caused them.
type failure interface {
	Failure() error
}

// Dispatcher delivers events to whoever is listening. Implementations must not
// let a listener failure reach the caller as a panic.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

type ChargeRetrievalFailed struct {
	ChargeID string `json:"charge_id"`
	Reason   string `json:"reason"`
	Err      error  `json:"-"`
}

func (ChargeRetrievalFailed) Name() string { return NameChargeRetrievalFailed }

func (e ChargeRetrievalFailed) Failure() error { return e.Err }

type PaymentSucceeded struct {
	Charge      *domain.Charge `json:"charge"`
	RedirectURL string         `json:"redirect_url,omitempty"`
}

func (PaymentSucceeded) Name() string { return NamePaymentSucceeded }

type PaymentFailed struct {
	Charge      *domain.Charge `json:"charge"`
	RedirectURL string         `json:"redirect_url,omitempty"`
	Message     string         `json:"message"`
}

func (PaymentFailed) Name() string { return NamePaymentFailed }

type WebhookReceived struct {
	Resource string         `json:"resource"`
	Payload  map[string]any `json:"payload"`
	IP       string         `json:"ip,omitempty"`
}

func (WebhookReceived) Name() string { return NameWebhookReceived }

// ResourceWebhook is named after the sanitized resource, e.g. gateway.webhook.charge.
type ResourceWebhook struct {
	Resource string         `json:"resource"`
	Payload  map[string]any `json:"payload"`
}

func (e ResourceWebhook) Name() string { return resourceWebhookPrefix + e.Resource }

type WebhookCatchAll struct {
	Resource string         `json:"resource"`
	Payload  map[string]any `json:"payload"`
}

func (WebhookCatchAll) Name() string { return NameWebhookCatchAll }

type WebhookProcessingFailed struct {
	Resource string         `json:"resource"`
	Payload  map[string]any `json:"payload"`
	Err      error          `json:"-"`
}

func (WebhookProcessingFailed) Name() string { return NameWebhookProcessingFailed }

func (e WebhookProcessingFailed) Failure() error { return e.Err }

// ResourceWebhookName returns the event name dispatched for an allowed resource.
func ResourceWebhookName(resource string) string {
	return resourceWebhookPrefix + resource
}
