package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Currency error codes
const (
	ErrCodeCurrencyEmpty       = "empty"
	ErrCodeCurrencyUnsupported = "unsupported"
	ErrCodeCurrencyMissing     = "missing"
	ErrCodeNegativeAmount      = "negative"
	ErrCodeInvalidAmount       = "invalid"
)

// Amount error codes
const (
	ErrCodeAmountMissing      = "missing"
	ErrCodeAmountNotPositive  = "notPositive"
	ErrCodeAmountBelowMinimum = "belowMinimum"
)

// Sentinels for errors.Is. Matching is by error type and code only.
var (
	ErrCurrencyEmpty       = &CurrencyError{Code: ErrCodeCurrencyEmpty}
	ErrCurrencyUnsupported = &CurrencyError{Code: ErrCodeCurrencyUnsupported}
	ErrCurrencyMissing     = &CurrencyError{Code: ErrCodeCurrencyMissing}
	ErrNegativeAmount      = &CurrencyError{Code: ErrCodeNegativeAmount}
	ErrInvalidAmount       = &CurrencyError{Code: ErrCodeInvalidAmount}

	ErrAmountMissing      = &AmountError{Code: ErrCodeAmountMissing}
	ErrAmountNotPositive  = &AmountError{Code: ErrCodeAmountNotPositive}
	ErrAmountBelowMinimum = &AmountError{Code: ErrCodeAmountBelowMinimum}

	ErrUnknownChargeStatus = errors.New("unknown charge status")
)

// CurrencyError is returned by every currency lookup and amount conversion.
type CurrencyError struct {
	Code     string
	Currency string
	Message  string
	Err      error
}

func (e *CurrencyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CurrencyError) Unwrap() error {
	return e.Err
}

func (e *CurrencyError) Is(target error) bool {
	t, ok := target.(*CurrencyError)
	return ok && t.Code == e.Code
}

// AmountError is returned when a resource carries no usable chargeable amount.
type AmountError struct {
	Code    string
	Field   string
	Message string
}

func (e *AmountError) Error() string {
	return e.Message
}

func (e *AmountError) Is(target error) bool {
	t, ok := target.(*AmountError)
	return ok && t.Code == e.Code
}

// ConfigurationError is fatal and only raised while constructing components.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

func NewEmptyCurrencyError() *CurrencyError {
	return &CurrencyError{
		Code:    ErrCodeCurrencyEmpty,
		Message: "currency code is empty",
	}
}

func NewUnsupportedCurrencyError(code string) *CurrencyError {
	return &CurrencyError{
		Code:     ErrCodeCurrencyUnsupported,
		Currency: code,
		Message: fmt.Sprintf(
			"currency %q is not supported, supported currencies: %s",
			code, strings.Join(SupportedCurrencies(), ", "),
		),
	}
}

func NewMissingCurrencyError() *CurrencyError {
	return &CurrencyError{
		Code:    ErrCodeCurrencyMissing,
		Message: "resource has no currency and no default currency is configured",
	}
}

func NewNegativeAmountError(currency Currency, amount string) *CurrencyError {
	return &CurrencyError{
		Code:     ErrCodeNegativeAmount,
		Currency: string(currency),
		Message:  fmt.Sprintf("amount %s cannot be negative", amount),
	}
}

func NewInvalidAmountError(currency Currency, amount any, err error) *CurrencyError {
	return &CurrencyError{
		Code:     ErrCodeInvalidAmount,
		Currency: string(currency),
		Message:  fmt.Sprintf("amount %v is not numeric", amount),
		Err:      err,
	}
}

func NewMissingAmountError(field string) *AmountError {
	return &AmountError{
		Code:    ErrCodeAmountMissing,
		Field:   field,
		Message: fmt.Sprintf("%s is missing or not numeric", field),
	}
}

func NewNotPositiveAmountError(field string) *AmountError {
	return &AmountError{
		Code:    ErrCodeAmountNotPositive,
		Field:   field,
		Message: fmt.Sprintf("%s must be greater than zero", field),
	}
}

func NewBelowMinimumAmountError(m Money) *AmountError {
	minimum, _ := m.Currency.ToDecimal(m.Currency.MinimumAmount())
	return &AmountError{
		Code:  ErrCodeAmountBelowMinimum,
		Field: "amount",
		Message: fmt.Sprintf(
			"amount %s is below the minimum of %s %s",
			m.String(), minimum.StringFixed(m.Currency.DecimalPlaces()), m.Currency,
		),
	}
}

// IsErrorCode reports whether err is a CurrencyError or AmountError with the given code.
func IsErrorCode(err error, code string) bool {
	var currencyErr *CurrencyError
	if errors.As(err, &currencyErr) {
		return currencyErr.Code == code
	}
	var amountErr *AmountError
	if errors.As(err, &amountErr) {
		return amountErr.Code == code
	}
	return false
}
