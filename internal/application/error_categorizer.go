package application

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/DanielPopoola/gulfpay/internal/application/events"
	"github.com/DanielPopoola/gulfpay/internal/domain"
	"github.com/DanielPopoola/gulfpay/internal/infrastructure/gateway"
)

// ErrorCategory represents the nature of an error for retry and logging purposes
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines the error category of a failed operation
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	// Money and amount errors are caller mistakes
	var currencyErr *domain.CurrencyError
	var amountErr *domain.AmountError
	if errors.As(err, &currencyErr) || errors.As(err, &amountErr) {
		return CategoryClientError
	}

	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		return CategoryInfrastructure
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidPayload, ErrCodeMissingChargeID, ErrCodeInvalidQuery, ErrCodeInvalidRedirect, ErrCodeInvalidSignature:
			return CategoryClientError
		case ErrCodePaymentFailed:
			return CategoryPermanent
		case ErrCodeTimeout:
			return CategoryTransient
		case ErrCodeInternal:
			return CategoryInfrastructure
		}
	}

	// Upstream API errors
	if apiErr, ok := gateway.AsAPIError(err); ok {
		switch apiErr.Kind {
		case gateway.KindNetwork:
			return CategoryTransient
		case gateway.KindAuthentication:
			// A rejected secret key will not fix itself
			return CategoryInfrastructure
		case gateway.KindInvalidRequest:
			return CategoryClientError
		}
		if apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests {
			return CategoryTransient
		}
		return CategoryPermanent
	}

	// Default: Transient (safe fallback)
	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	return CategorizeError(err) == CategoryTransient
}

// RetrievalReason tags a failed charge retrieval as authentication,
// invalid_request or api_error.
func RetrievalReason(err error) string {
	switch {
	case gateway.IsAuthentication(err):
		return events.ReasonAuthentication
	case gateway.IsInvalidRequest(err):
		return events.ReasonInvalidRequest
	default:
		return events.ReasonAPIError
	}
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch CategorizeError(err) {
	case CategoryClientError:
		return http.StatusBadRequest
	case CategoryPermanent:
		return http.StatusBadGateway
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	if _, ok := gateway.AsAPIError(err); ok {
		return http.StatusBadGateway
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var currencyErr *domain.CurrencyError
	if errors.As(err, &currencyErr) {
		return "CURRENCY_" + strings.ToUpper(currencyErr.Code)
	}
	var amountErr *domain.AmountError
	if errors.As(err, &amountErr) {
		return "AMOUNT_" + strings.ToUpper(amountErr.Code)
	}

	if apiErr, ok := gateway.AsAPIError(err); ok {
		return "UPSTREAM_" + strings.ToUpper(string(apiErr.Kind))
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}
