package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (HTTP boundary)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidPayload   = "INVALID_PAYLOAD"
	ErrCodeMissingChargeID  = "MISSING_CHARGE_ID"
	ErrCodeInvalidQuery     = "INVALID_QUERY"
	ErrCodeInvalidRedirect  = "INVALID_REDIRECT"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodePaymentFailed    = "PAYMENT_FAILED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

func NewInvalidPayloadError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidPayload,
		Message:    "Webhook payload must be a JSON object",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewMissingChargeIDError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeMissingChargeID,
		Message:    "charge_id is required",
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInvalidQueryError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidQuery,
		Message:    "Invalid callback parameters",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewInvalidRedirectError(reason string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidRedirect,
		Message:    "Invalid redirect URL: " + reason,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInvalidSignatureError(reason string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidSignature,
		Message:    "Invalid webhook signature: " + reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewPaymentFailedError carries a failed callback outcome message to the client.
func NewPaymentFailedError(message string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodePaymentFailed,
		Message:    message,
		HTTPStatus: http.StatusPaymentRequired,
	}
}

func NewTimeoutError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeTimeout,
		Message:    "Request timeout",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
