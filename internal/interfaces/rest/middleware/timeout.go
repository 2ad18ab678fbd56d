package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DanielPopoola/gulfpay/internal/application"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest"
)

// Timeout bounds the whole request, including the upstream charge retrieval.
// A zero timeout disables it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	_, response := rest.BuildErrorResponse(application.NewTimeoutError())
	body, _ := json.Marshal(response)

	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		timeoutHandler := http.TimeoutHandler(next, timeout, string(body))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			// Handlers overwrite this; it only survives on the timeout path.
			w.Header().Set("Content-Type", "application/json")

			timeoutHandler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
