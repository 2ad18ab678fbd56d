package gateway

import (
	"context"

	"github.com/DanielPopoola/gulfpay/internal/domain"
)

type CustomerParams struct {
	FirstName   string
	LastName    string
	Email       string
	CountryCode string
	PhoneNumber string
	Currency    string
	Description string
	Metadata    map[string]string
}

func (p CustomerParams) body() (map[string]any, error) {
	body := map[string]any{}
	if p.FirstName != "" {
		body["first_name"] = p.FirstName
	}
	if p.LastName != "" {
		body["last_name"] = p.LastName
	}
	if p.Email != "" {
		body["email"] = p.Email
	}
	if p.PhoneNumber != "" {
		body["phone"] = map[string]any{
			"country_code": p.CountryCode,
			"number":       p.PhoneNumber,
		}
	}
	if p.Currency != "" {
		currency, err := domain.NormalizeCurrency(p.Currency)
		if err != nil {
			return nil, err
		}
		body["currency"] = currency.String()
	}
	if p.Description != "" {
		body["description"] = p.Description
	}
	if len(p.Metadata) > 0 {
		body["metadata"] = p.Metadata
	}
	return body, nil
}

func (c *Client) CreateCustomer(ctx context.Context, params CustomerParams) (domain.Resource, error) {
	body, err := params.body()
	if err != nil {
		return nil, err
	}
	return c.postResource(ctx, "customers", body)
}

func (c *Client) RetrieveCustomer(ctx context.Context, customerID string) (domain.Resource, error) {
	path, err := resourcePath("customers", customerID)
	if err != nil {
		return nil, err
	}
	return c.getResource(ctx, path)
}

func (c *Client) UpdateCustomer(ctx context.Context, customerID string, params CustomerParams) (domain.Resource, error) {
	path, err := resourcePath("customers", customerID)
	if err != nil {
		return nil, err
	}
	body, err := params.body()
	if err != nil {
		return nil, err
	}

	raw, err := c.Put(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return decodeResource(raw)
}

// DeleteCustomer reports the "deleted" flag from the API response.
func (c *Client) DeleteCustomer(ctx context.Context, customerID string) (bool, error) {
	path, err := resourcePath("customers", customerID)
	if err != nil {
		return false, err
	}

	raw, err := c.Delete(ctx, path)
	if err != nil {
		return false, err
	}
	deleted, _ := raw["deleted"].(bool)
	return deleted, nil
}
