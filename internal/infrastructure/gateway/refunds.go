package gateway

import (
	"context"
	"strings"

	"github.com/DanielPopoola/gulfpay/internal/domain"
	"github.com/shopspring/decimal"
)

type RefundParams struct {
	ChargeID             string
	Amount               decimal.Decimal
	Currency             string
	Reason               string
	TransactionReference string
	PostURL              string
	Metadata             map[string]string
}

// CreateRefund requires a strictly positive amount; the minimum charge floor does
// not apply to refunds.
func (c *Client) CreateRefund(ctx context.Context, params RefundParams) (domain.Resource, error) {
	if strings.TrimSpace(params.ChargeID) == "" {
		return nil, &APIError{
			Kind:    KindInvalidRequest,
			Message: "charge id is required",
			Errors:  []any{},
		}
	}

	currency := params.Currency
	if strings.TrimSpace(currency) == "" {
		currency = c.amounts.DefaultCurrency
	}
	if strings.TrimSpace(currency) == "" {
		return nil, domain.NewMissingCurrencyError()
	}
	money, err := domain.NewMoney(params.Amount, currency)
	if err != nil {
		return nil, err
	}
	if !money.Amount.IsPositive() {
		return nil, domain.NewNotPositiveAmountError("amount")
	}

	body := map[string]any{
		"charge_id": params.ChargeID,
		"amount":    amountNumber(money),
		"currency":  money.Currency.String(),
		"reason":    params.Reason,
	}
	if params.TransactionReference != "" {
		body["reference"] = map[string]any{"merchant": params.TransactionReference}
	}
	if params.PostURL != "" {
		body["post"] = map[string]any{"url": params.PostURL}
	}
	if len(params.Metadata) > 0 {
		body["metadata"] = params.Metadata
	}

	return c.postResource(ctx, "refunds", body)
}

func (c *Client) RetrieveRefund(ctx context.Context, refundID string) (domain.Resource, error) {
	path, err := resourcePath("refunds", refundID)
	if err != nil {
		return nil, err
	}
	return c.getResource(ctx, path)
}
