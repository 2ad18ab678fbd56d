package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DanielPopoola/gulfpay/internal/application"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest"
)

const (
	SignatureHeader = "X-Gateway-Signature"

	// MaxWebhookBody caps what is read from an inbound webhook.
	MaxWebhookBody = 1 << 20
)

var (
	errMissingSignature   = errors.New("missing signature header")
	errMalformedSignature = errors.New("malformed signature header")
	errSignatureMismatch  = errors.New("signature mismatch")
	errSignatureExpired   = errors.New("timestamp outside tolerance")
)

// Sign returns the header value for body signed at ts. Senders and tests use it.
func Sign(secret string, ts time.Time, body []byte) string {
	t := strconv.FormatInt(ts.Unix(), 10)
	return "t=" + t + ",v1=" + hex.EncodeToString(computeMAC(secret, t, body))
}

func computeMAC(secret, t string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(t))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

// verifySignature checks "t=<unix>,v1=<hex>" against the body. Several v1
// entries are accepted so the secret can be rotated.
func verifySignature(header, secret string, body []byte, tolerance time.Duration, now time.Time) error {
	if header == "" {
		return errMissingSignature
	}

	var t string
	var candidates [][]byte
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return errMalformedSignature
		}
		switch key {
		case "t":
			t = value
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				return errMalformedSignature
			}
			candidates = append(candidates, sig)
		}
	}
	if t == "" || len(candidates) == 0 {
		return errMalformedSignature
	}

	unix, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return errMalformedSignature
	}
	if tolerance > 0 {
		age := now.Sub(time.Unix(unix, 0))
		if age > tolerance || age < -tolerance {
			return errSignatureExpired
		}
	}

	expected := computeMAC(secret, t, body)
	for _, sig := range candidates {
		if hmac.Equal(sig, expected) {
			return nil
		}
	}
	return errSignatureMismatch
}

// WebhookSignature rejects webhooks whose body is not signed with secret. An
// empty secret disables the check. The body is buffered and handed on intact.
func WebhookSignature(secret string, tolerance time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxWebhookBody))
			if err != nil {
				rest.WriteError(w, application.NewInvalidPayloadError(err), logger)
				return
			}

			if err := verifySignature(r.Header.Get(SignatureHeader), secret, body, tolerance, time.Now()); err != nil {
				logger.WarnContext(r.Context(), "webhook signature rejected",
					"request_id", RequestID(r.Context()),
					"ip", rest.ClientIP(r),
					"reason", err.Error(),
				)
				rest.WriteError(w, application.NewInvalidSignatureError(err.Error()), logger)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
