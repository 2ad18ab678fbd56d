package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// Object names used by the upstream API in the "object" field.
const (
	ObjectCharge    = "charge"
	ObjectAuthorize = "authorize"
	ObjectRefund    = "refund"
	ObjectCustomer  = "customer"
)

// Resource is the capability every payment resource exposes to the amount
// accessor and to event consumers.
type Resource interface {
	Object() string
	ResourceID() string
	AmountField() (any, bool)
	CurrencyField() string
}

// Base carries the fields shared by all resource variants.
type Base struct {
	ID           string         `mapstructure:"id"`
	ObjectType   string         `mapstructure:"object"`
	Amount       any            `mapstructure:"amount"`
	CurrencyCode string         `mapstructure:"currency"`
	Metadata     map[string]any `mapstructure:"metadata"`
	Raw          map[string]any `mapstructure:"-"`
}

func (b *Base) Object() string {
	return b.ObjectType
}

func (b *Base) ResourceID() string {
	return b.ID
}

func (b *Base) AmountField() (any, bool) {
	if b.Amount == nil {
		return nil, false
	}
	return b.Amount, true
}

func (b *Base) CurrencyField() string {
	return b.CurrencyCode
}

// MarshalJSON writes the payload the resource was decoded from, so events and
// logs carry exactly what the API returned.
func (b *Base) MarshalJSON() ([]byte, error) {
	if b.Raw != nil {
		return json.Marshal(b.Raw)
	}
	return json.Marshal(map[string]any{
		"id":       b.ID,
		"object":   b.ObjectType,
		"amount":   b.Amount,
		"currency": b.CurrencyCode,
		"metadata": b.Metadata,
	})
}

// Unknown is any object this package has no variant for.
type Unknown struct {
	Base `mapstructure:",squash"`
}

// DecodeResource builds the resource variant named by raw["object"].
func DecodeResource(raw map[string]any) (Resource, error) {
	object, _ := raw["object"].(string)

	var res Resource
	switch strings.ToLower(object) {
	case ObjectCharge:
		res = &Charge{}
	case ObjectAuthorize:
		res = &Authorization{}
	case ObjectRefund:
		res = &Refund{}
	case ObjectCustomer:
		res = &Customer{}
	default:
		res = &Unknown{}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           res,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode %s resource: %w", object, err)
	}

	setRaw(res, raw)
	return res, nil
}

func setRaw(res Resource, raw map[string]any) {
	switch r := res.(type) {
	case *Charge:
		r.Raw = raw
	case *Authorization:
		r.Raw = raw
	case *Refund:
		r.Raw = raw
	case *Customer:
		r.Raw = raw
	case *Unknown:
		r.Raw = raw
	}
}

// AmountResolver reads amounts off resources, falling back to a process-wide
// default currency when a resource has none.
type AmountResolver struct {
	DefaultCurrency string
}

func NewAmountResolver(defaultCurrency string) *AmountResolver {
	return &AmountResolver{DefaultCurrency: defaultCurrency}
}

func (r *AmountResolver) Currency(res Resource) (Currency, error) {
	code := strings.TrimSpace(res.CurrencyField())
	if code == "" {
		code = strings.TrimSpace(r.DefaultCurrency)
	}
	if code == "" {
		return "", NewMissingCurrencyError()
	}
	return NormalizeCurrency(code)
}

// Amount returns the resource amount as Money. The raw field must be a number
// strictly greater than zero.
func (r *AmountResolver) Amount(res Resource) (Money, error) {
	raw, ok := res.AmountField()
	if !ok {
		return Money{}, NewMissingAmountError("amount")
	}

	amount, ok := numericAmount(raw)
	if !ok {
		return Money{}, NewMissingAmountError("amount")
	}
	if !amount.IsPositive() {
		return Money{}, NewNotPositiveAmountError("amount")
	}

	currency, err := r.Currency(res)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(amount, string(currency))
}

func numericAmount(raw any) (decimal.Decimal, bool) {
	d, err := parseNumeric(raw)
	return d, err == nil
}
