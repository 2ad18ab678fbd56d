package gateway

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/DanielPopoola/gulfpay/internal/domain"
	"github.com/shopspring/decimal"
)

// ChargeParams describes a new charge or authorization. Amount is in major units.
type ChargeParams struct {
	Amount               decimal.Decimal
	Currency             string
	CustomerID           string
	SourceID             string
	Description          string
	StatementDescriptor  string
	TransactionReference string
	OrderReference       string
	RedirectURL          string
	PostURL              string
	Metadata             map[string]string
}

type ChargeUpdateParams struct {
	Description string
	Metadata    map[string]string
}

type ListParams struct {
	Limit         int
	StartingAfter string
}

// CreateCharge validates the amount against the currency rules before calling the API.
func (c *Client) CreateCharge(ctx context.Context, params ChargeParams) (domain.Resource, error) {
	body, err := c.chargeBody(params)
	if err != nil {
		return nil, err
	}
	return c.postResource(ctx, "charges", body)
}

// RetrieveCharge returns whatever resource the API answers with; callers that
// need a charge must check the concrete type.
func (c *Client) RetrieveCharge(ctx context.Context, chargeID string) (domain.Resource, error) {
	path, err := resourcePath("charges", chargeID)
	if err != nil {
		return nil, err
	}
	return c.getResource(ctx, path)
}

func (c *Client) UpdateCharge(ctx context.Context, chargeID string, params ChargeUpdateParams) (domain.Resource, error) {
	path, err := resourcePath("charges", chargeID)
	if err != nil {
		return nil, err
	}

	body := map[string]any{}
	if params.Description != "" {
		body["description"] = params.Description
	}
	if len(params.Metadata) > 0 {
		body["metadata"] = params.Metadata
	}

	raw, err := c.Put(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return decodeResource(raw)
}

func (c *Client) ListCharges(ctx context.Context, params ListParams) ([]domain.Resource, error) {
	query := url.Values{}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.StartingAfter != "" {
		query.Set("starting_after", params.StartingAfter)
	}

	raw, err := c.Get(ctx, "charges", query)
	if err != nil {
		return nil, err
	}
	return decodeList(raw, "charges")
}

func (c *Client) chargeBody(params ChargeParams) (map[string]any, error) {
	money, err := c.chargeableMoney(params.Amount, params.Currency)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"amount":   amountNumber(money),
		"currency": money.Currency.String(),
	}
	if params.CustomerID != "" {
		body["customer"] = map[string]any{"id": params.CustomerID}
	}
	if params.SourceID != "" {
		body["source"] = map[string]any{"id": params.SourceID}
	}
	if params.Description != "" {
		body["description"] = params.Description
	}
	if params.StatementDescriptor != "" {
		body["statement_descriptor"] = params.StatementDescriptor
	}
	if params.TransactionReference != "" || params.OrderReference != "" {
		body["reference"] = map[string]any{
			"transaction": params.TransactionReference,
			"order":       params.OrderReference,
		}
	}
	if params.RedirectURL != "" {
		body["redirect"] = map[string]any{"url": params.RedirectURL}
	}
	if params.PostURL != "" {
		body["post"] = map[string]any{"url": params.PostURL}
	}
	if len(params.Metadata) > 0 {
		body["metadata"] = params.Metadata
	}
	return body, nil
}

// chargeableMoney resolves the currency (falling back to the configured default)
// and enforces the positive and minimum-amount rules.
func (c *Client) chargeableMoney(amount decimal.Decimal, currency string) (domain.Money, error) {
	if strings.TrimSpace(currency) == "" {
		currency = c.amounts.DefaultCurrency
	}
	if strings.TrimSpace(currency) == "" {
		return domain.Money{}, domain.NewMissingCurrencyError()
	}

	money, err := domain.NewMoney(amount, currency)
	if err != nil {
		return domain.Money{}, err
	}
	if err := domain.CheckChargeable(money); err != nil {
		return domain.Money{}, err
	}
	return money, nil
}

func (c *Client) postResource(ctx context.Context, path string, body any) (domain.Resource, error) {
	raw, err := c.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return decodeResource(raw)
}

func (c *Client) getResource(ctx context.Context, path string) (domain.Resource, error) {
	raw, err := c.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeResource(raw)
}

// amountNumber renders the amount at native precision as a JSON number.
func amountNumber(m domain.Money) json.Number {
	return json.Number(m.Amount.StringFixed(m.Currency.DecimalPlaces()))
}

func resourcePath(collection, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &APIError{
			Kind:    KindInvalidRequest,
			Message: collection + " id is required",
			Errors:  []any{},
		}
	}
	return collection + "/" + url.PathEscape(id), nil
}

func decodeResource(raw map[string]any) (domain.Resource, error) {
	res, err := domain.DecodeResource(raw)
	if err != nil {
		return nil, newDecodeError(err)
	}
	return res, nil
}

func decodeList(raw map[string]any, key string) ([]domain.Resource, error) {
	items, ok := raw[key].([]any)
	if !ok {
		items, _ = raw["data"].([]any)
	}

	resources := make([]domain.Resource, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		res, err := decodeResource(obj)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, nil
}
