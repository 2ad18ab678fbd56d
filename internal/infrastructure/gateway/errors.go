package gateway

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes every API call maps onto.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindAPI            ErrorKind = "api_error"
	KindNetwork        ErrorKind = "network"
)

const (
	authenticationMessage = "Authentication failed: invalid or missing secret key"
	unknownErrorMessage   = "Unknown API error"
)

// APIError is returned by every failed request. StatusCode is 0 when no usable
// HTTP response was received.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Errors     []any
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api error [%s]: %s (status: %d): %v", e.Kind, e.Message, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api error [%s]: %s (status: %d)", e.Kind, e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newAuthenticationError(statusCode int) *APIError {
	return &APIError{
		Kind:       KindAuthentication,
		StatusCode: statusCode,
		Message:    authenticationMessage,
		Errors:     []any{},
	}
}

func newNetworkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: "Network error: " + err.Error(),
		Errors:  []any{},
		Err:     err,
	}
}

func newDecodeError(err error) *APIError {
	return &APIError{
		Kind:    KindAPI,
		Message: "Invalid JSON response: " + err.Error(),
		Errors:  []any{},
		Err:     err,
	}
}

// classify maps a decoded non-2xx response body onto an APIError.
func classify(statusCode int, body map[string]any) *APIError {
	if statusCode == 401 {
		return newAuthenticationError(statusCode)
	}

	kind := KindAPI
	if statusCode == 400 || statusCode == 422 {
		kind = KindInvalidRequest
	}

	return &APIError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    errorMessage(body),
		Errors:     errorList(body),
	}
}

func errorMessage(body map[string]any) string {
	if s, ok := body["message"].(string); ok && s != "" {
		return s
	}
	if s, ok := body["error"].(string); ok && s != "" {
		return s
	}
	return unknownErrorMessage
}

func errorList(body map[string]any) []any {
	if errs, ok := body["errors"].([]any); ok {
		return errs
	}
	return []any{}
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

func IsAuthentication(err error) bool {
	return isKind(err, KindAuthentication)
}

func IsInvalidRequest(err error) bool {
	return isKind(err, KindInvalidRequest)
}

func IsNetwork(err error) bool {
	return isKind(err, KindNetwork)
}

func isKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}
