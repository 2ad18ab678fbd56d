package rest

import (
	"net"
	"net/http"
	"strings"

	"github.com/DanielPopoola/gulfpay/internal/domain"
)

// Charge is the client-facing view of a retrieved charge.
type Charge struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Category    string `json:"category,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Formatted   string `json:"formatted_amount,omitempty"`
	Message     string `json:"message,omitempty"`
	Reference   string `json:"reference,omitempty"`
	CustomerID  string `json:"customer_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToCharge renders a charge. Amount fields are left out when the charge's
// amount or currency cannot be resolved.
func ToCharge(c *domain.Charge, amounts *domain.AmountResolver) *Charge {
	if c == nil {
		return nil
	}

	out := &Charge{
		ID:          c.ID,
		Status:      string(c.Status),
		Message:     c.ResponseMessage(),
		Reference:   c.Reference.Transaction,
		CustomerID:  c.Customer.ID,
		Description: c.Description,
	}

	if category, err := c.Category(); err == nil {
		out.Category = string(category)
	}

	if amounts != nil {
		if money, err := amounts.Amount(c); err == nil {
			out.Amount = money.Amount.StringFixed(money.Currency.DecimalPlaces())
			out.Currency = money.Currency.String()
			out.Formatted = money.String()
		}
	}

	return out
}

// ClientIP prefers the first X-Forwarded-For hop, then the connection address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
