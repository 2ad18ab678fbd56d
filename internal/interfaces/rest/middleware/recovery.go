package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/DanielPopoola/gulfpay/internal/application"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest"
)

// Recovery converts a handler panic into a 500 INTERNAL_ERROR envelope.
// http.ErrAbortHandler is passed through so net/http can drop the connection.
// When the handler already started its response only the log line is written.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracked, ok := w.(*statusRecorder)
			if !ok {
				tracked = &statusRecorder{ResponseWriter: w}
			}

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, isErr := v.(error); isErr && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				committed := tracked.status != 0
				logger.ErrorContext(r.Context(), "handler panicked",
					"panic", v,
					"request_id", RequestID(r.Context()),
					"route", r.Method+" "+r.URL.Path,
					"response_started", committed,
					"stack", string(debug.Stack()),
				)
				if committed {
					return
				}
				rest.WriteError(tracked, application.NewInternalError(fmt.Errorf("panic: %v", v)), logger)
			}()

			next.ServeHTTP(tracked, r)
		})
	}
}
