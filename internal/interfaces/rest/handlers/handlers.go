package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/gulfpay/internal/application/services"
	"github.com/DanielPopoola/gulfpay/internal/domain"
	"github.com/go-playground/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WebhookHandler interface {
	Handle(ctx context.Context, payload map[string]any, ip string)
}

type CallbackHandler interface {
	Handle(ctx context.Context, chargeID, redirectURL string) services.Outcome
}

// Handlers serves the notification endpoints.
type Handlers struct {
	webhooks  WebhookHandler
	callbacks CallbackHandler
	amounts   *domain.AmountResolver
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewHandlers(
	webhooks WebhookHandler,
	callbacks CallbackHandler,
	amounts *domain.AmountResolver,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		webhooks:  webhooks,
		callbacks: callbacks,
		amounts:   amounts,
		validate:  validator.New(),
		logger:    logger,
	}
}

// RegisterRoutes mounts every endpoint. wrapWebhook and wrapCallback apply
// per-route middleware and may be nil.
func (h *Handlers) RegisterRoutes(
	mux *http.ServeMux,
	gatherer prometheus.Gatherer,
	wrapWebhook, wrapCallback func(http.Handler) http.Handler,
) {
	var webhooks, callback http.Handler = http.HandlerFunc(h.ReceiveWebhook), http.HandlerFunc(h.PaymentCallback)
	if wrapWebhook != nil {
		webhooks = wrapWebhook(webhooks)
	}
	if wrapCallback != nil {
		callback = wrapCallback(callback)
	}

	mux.Handle("POST /webhooks", webhooks)
	mux.Handle("GET /payments/callback", callback)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
