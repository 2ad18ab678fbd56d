package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/DanielPopoola/gulfpay/internal/application"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest/middleware"
)

var errNotAnObject = errors.New("payload is not a JSON object")

// ReceiveWebhook acknowledges every well-formed webhook. Dispatch failures are
// the service's concern and never reach the sender.
func (h *Handlers) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeObject(http.MaxBytesReader(w, r.Body, middleware.MaxWebhookBody))
	if err != nil {
		h.logger.WarnContext(r.Context(), "rejected webhook payload", "error", err)
		rest.WriteError(w, application.NewInvalidPayloadError(err), h.logger)
		return
	}

	h.webhooks.Handle(r.Context(), payload, rest.ClientIP(r))

	rest.WriteJSON(w, http.StatusOK, rest.APIResponse{Success: true})
}

func decodeObject(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}

	payload, ok := v.(map[string]any)
	if !ok {
		return nil, errNotAnObject
	}
	return payload, nil
}
