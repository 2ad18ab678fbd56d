package domain

import (
	"fmt"
	"strings"
)

// ChargeStatus is the upstream status of a charge or authorization.
type ChargeStatus string

const (
	StatusInitiated  ChargeStatus = "INITIATED"
	StatusInProgress ChargeStatus = "IN_PROGRESS"
	StatusAuthorized ChargeStatus = "AUTHORIZED"
	StatusCaptured   ChargeStatus = "CAPTURED"
	StatusFailed     ChargeStatus = "FAILED"
	StatusDeclined   ChargeStatus = "DECLINED"
	StatusCancelled  ChargeStatus = "CANCELLED"
	StatusAbandoned  ChargeStatus = "ABANDONED"
	StatusRestricted ChargeStatus = "RESTRICTED"
	StatusVoid       ChargeStatus = "VOID"
	StatusTimedOut   ChargeStatus = "TIMEDOUT"
)

// Category groups charge statuses by how callers react to them.
type Category string

const (
	CategorySuccessful Category = "SUCCESSFUL"
	CategoryPending    Category = "PENDING"
	CategoryFailed     Category = "FAILED"
)

var statusCategories = map[ChargeStatus]Category{
	StatusCaptured:   CategorySuccessful,
	StatusAuthorized: CategorySuccessful,
	StatusInitiated:  CategoryPending,
	StatusInProgress: CategoryPending,
	StatusFailed:     CategoryFailed,
	StatusDeclined:   CategoryFailed,
	StatusCancelled:  CategoryFailed,
	StatusAbandoned:  CategoryFailed,
	StatusRestricted: CategoryFailed,
	StatusVoid:       CategoryFailed,
	StatusTimedOut:   CategoryFailed,
}

// ParseChargeStatus accepts any casing and "-" or " " in place of "_".
func ParseChargeStatus(s string) (ChargeStatus, error) {
	normalized := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToUpper(strings.TrimSpace(s)))
	status := ChargeStatus(normalized)
	if _, ok := statusCategories[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownChargeStatus, s)
	}
	return status, nil
}

// CategoryOf maps a status onto its category. Unknown statuses are an error,
// never a default category.
func CategoryOf(status ChargeStatus) (Category, error) {
	parsed, err := ParseChargeStatus(string(status))
	if err != nil {
		return "", err
	}
	return statusCategories[parsed], nil
}

// Charge is one attempt to collect funds.
type Charge struct {
	Base        `mapstructure:",squash"`
	Status      ChargeStatus    `mapstructure:"status"`
	Description string          `mapstructure:"description"`
	Reference   Reference       `mapstructure:"reference"`
	Response    GatewayResponse `mapstructure:"response"`
	Customer    CustomerRef     `mapstructure:"customer"`
	Source      SourceRef       `mapstructure:"source"`
	Transaction TransactionInfo `mapstructure:"transaction"`
	Redirect    URLRef          `mapstructure:"redirect"`
	Post        URLRef          `mapstructure:"post"`
}

func (c *Charge) Category() (Category, error) {
	return CategoryOf(c.Status)
}

func (c *Charge) IsSuccessful() bool {
	return c.is(CategorySuccessful)
}

func (c *Charge) IsPending() bool {
	return c.is(CategoryPending)
}

func (c *Charge) HasFailed() bool {
	return c.is(CategoryFailed)
}

func (c *Charge) is(category Category) bool {
	got, err := c.Category()
	return err == nil && got == category
}

// ResponseMessage is the acquirer message nested under response.message.
func (c *Charge) ResponseMessage() string {
	return strings.TrimSpace(c.Response.Message)
}

// Authorization holds funds on a source without capturing them.
type Authorization struct {
	Base        `mapstructure:",squash"`
	Status      ChargeStatus    `mapstructure:"status"`
	Reference   Reference       `mapstructure:"reference"`
	Response    GatewayResponse `mapstructure:"response"`
	Customer    CustomerRef     `mapstructure:"customer"`
	Source      SourceRef       `mapstructure:"source"`
	Transaction TransactionInfo `mapstructure:"transaction"`
}

func (a *Authorization) Category() (Category, error) {
	return CategoryOf(a.Status)
}

// Refund returns all or part of a captured charge.
type Refund struct {
	Base      `mapstructure:",squash"`
	ChargeID  string          `mapstructure:"charge_id"`
	Status    string          `mapstructure:"status"`
	Reason    string          `mapstructure:"reason"`
	Reference Reference       `mapstructure:"reference"`
	Response  GatewayResponse `mapstructure:"response"`
}

// Customer has no amount of its own; AmountField always reports absent.
type Customer struct {
	Base      `mapstructure:",squash"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	Email     string `mapstructure:"email"`
	Phone     Phone  `mapstructure:"phone"`
}

func (c *Customer) AmountField() (any, bool) {
	return nil, false
}

type Reference struct {
	Transaction string `mapstructure:"transaction"`
	Order       string `mapstructure:"order"`
	Gateway     string `mapstructure:"gateway"`
	Payment     string `mapstructure:"payment"`
}

type GatewayResponse struct {
	Code    string `mapstructure:"code"`
	Message string `mapstructure:"message"`
}

type CustomerRef struct {
	ID        string `mapstructure:"id"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	Email     string `mapstructure:"email"`
}

type SourceRef struct {
	ID     string `mapstructure:"id"`
	Object string `mapstructure:"object"`
	Type   string `mapstructure:"type"`
}

type TransactionInfo struct {
	URL      string `mapstructure:"url"`
	Timezone string `mapstructure:"timezone"`
}

type URLRef struct {
	URL    string `mapstructure:"url"`
	Status string `mapstructure:"status"`
}

type Phone struct {
	CountryCode string `mapstructure:"country_code"`
	Number      string `mapstructure:"number"`
}
