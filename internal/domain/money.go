package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an upper-cased ISO 4217 code from the supported set.
// Values must come from NormalizeCurrency; the methods assume a supported code.
type Currency string

const (
	KWD Currency = "KWD"
	BHD Currency = "BHD"
	OMR Currency = "OMR"
	JOD Currency = "JOD"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	SAR Currency = "SAR"
	AED Currency = "AED"
	QAR Currency = "QAR"
	EGP Currency = "EGP"
	LBP Currency = "LBP"
)

var decimalPlaces = map[Currency]int32{
	KWD: 3,
	BHD: 3,
	OMR: 3,
	JOD: 3,
	USD: 2,
	EUR: 2,
	GBP: 2,
	SAR: 2,
	AED: 2,
	QAR: 2,
	EGP: 2,
	LBP: 2,
}

// NormalizeCurrency trims and upper-cases code and checks it against the supported set.
func NormalizeCurrency(code string) (Currency, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", NewEmptyCurrencyError()
	}

	c := Currency(strings.ToUpper(code))
	if _, ok := decimalPlaces[c]; !ok {
		return "", NewUnsupportedCurrencyError(string(c))
	}
	return c, nil
}

// IsSupported never fails; malformed input is simply unsupported.
func IsSupported(code string) bool {
	_, err := NormalizeCurrency(code)
	return err == nil
}

// SupportedCurrencies returns the supported codes in alphabetical order.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(decimalPlaces))
	for c := range decimalPlaces {
		codes = append(codes, string(c))
	}
	slices.Sort(codes)
	return codes
}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) DecimalPlaces() int32 {
	return decimalPlaces[c]
}

func (c Currency) Divisor() int64 {
	return int64(math.Pow10(int(c.DecimalPlaces())))
}

// MinimumAmount is the upstream minimum charge in smallest units. It depends on
// the currency precision only.
func (c Currency) MinimumAmount() int64 {
	if c.DecimalPlaces() == 3 {
		return 100
	}
	return 10
}

// ToDecimal converts a smallest-unit amount into major units.
func (c Currency) ToDecimal(amount int64) (decimal.Decimal, error) {
	if amount < 0 {
		return decimal.Zero, NewNegativeAmountError(c, fmt.Sprint(amount))
	}
	places := c.DecimalPlaces()
	return decimal.New(amount, -places).Round(places), nil
}

// ToSmallestUnit converts a major-unit amount into an integer count of minor units,
// rounding half away from zero. Accepted inputs are decimal.Decimal, json.Number,
// Go integer and float values, and numeric strings.
func (c Currency) ToSmallestUnit(amount any) (int64, error) {
	d, err := c.parseAmount(amount)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, NewNegativeAmountError(c, d.String())
	}
	units := d.Shift(c.DecimalPlaces()).Round(0)
	if units.GreaterThan(maxSmallestUnit) {
		return 0, NewInvalidAmountError(c, d.String(), errOutOfRange)
	}
	return units.IntPart(), nil
}

// Format renders a smallest-unit amount as "12.500 KWD".
func (c Currency) Format(amount int64) (string, error) {
	d, err := c.ToDecimal(amount)
	if err != nil {
		return "", err
	}
	return d.StringFixed(c.DecimalPlaces()) + " " + string(c), nil
}

func (c Currency) parseAmount(amount any) (decimal.Decimal, error) {
	d, err := parseNumeric(amount)
	if err != nil {
		return decimal.Zero, NewInvalidAmountError(c, amount, err)
	}
	return d, nil
}

var (
	errNotNumeric   = errors.New("unsupported amount type")
	errNotFinite    = errors.New("amount is not finite")
	errOutOfRange   = errors.New("amount does not fit in minor units")
	maxSmallestUnit = decimal.NewFromInt(math.MaxInt64)
)

// parseNumeric is the single definition of a numeric amount, shared by
// conversions and resource amount resolution.
func parseNumeric(amount any) (decimal.Decimal, error) {
	switch v := amount.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float32:
		return parseFloat(float64(v))
	case float64:
		return parseFloat(v)
	case json.Number:
		return decimal.NewFromString(strings.TrimSpace(v.String()))
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	default:
		return decimal.Zero, errNotNumeric
	}
}

func parseFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, errNotFinite
	}
	return decimal.NewFromFloat(v), nil
}

func DecimalPlaces(code string) (int32, error) {
	c, err := NormalizeCurrency(code)
	if err != nil {
		return 0, err
	}
	return c.DecimalPlaces(), nil
}

func Divisor(code string) (int64, error) {
	c, err := NormalizeCurrency(code)
	if err != nil {
		return 0, err
	}
	return c.Divisor(), nil
}

func MinimumAmount(code string) (int64, error) {
	c, err := NormalizeCurrency(code)
	if err != nil {
		return 0, err
	}
	return c.MinimumAmount(), nil
}

func ToDecimal(amount int64, code string) (decimal.Decimal, error) {
	c, err := NormalizeCurrency(code)
	if err != nil {
		return decimal.Zero, err
	}
	return c.ToDecimal(amount)
}

func ToSmallestUnit(amount any, code string) (int64, error) {
	c, err := NormalizeCurrency(code)
	if err != nil {
		return 0, err
	}
	return c.ToSmallestUnit(amount)
}

func Format(amount int64, code string) (string, error) {
	c, err := NormalizeCurrency(code)
	if err != nil {
		return "", err
	}
	return c.Format(amount)
}

// Money is a decimal amount in major units paired with its currency.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

func NewMoney(amount decimal.Decimal, code string) (Money, error) {
	c, err := NormalizeCurrency(code)
	if err != nil {
		return Money{}, err
	}
	if amount.IsNegative() {
		return Money{}, NewNegativeAmountError(c, amount.String())
	}
	return Money{Amount: amount.Round(c.DecimalPlaces()), Currency: c}, nil
}

func (m Money) SmallestUnit() (int64, error) {
	return m.Currency.ToSmallestUnit(m.Amount)
}

func (m Money) String() string {
	return m.Amount.StringFixed(m.Currency.DecimalPlaces()) + " " + string(m.Currency)
}

// CheckChargeable rejects amounts that are not strictly positive or fall under
// the currency's minimum charge.
func CheckChargeable(m Money) error {
	if !m.Amount.IsPositive() {
		return NewNotPositiveAmountError("amount")
	}
	units, err := m.SmallestUnit()
	if err != nil {
		return err
	}
	if units < m.Currency.MinimumAmount() {
		return NewBelowMinimumAmountError(m)
	}
	return nil
}
