package gateway

import (
	"context"

	"github.com/DanielPopoola/gulfpay/internal/domain"
)

// AuthorizeParams holds funds without capturing them. AutoVoidHours > 0 asks the
// API to void the hold automatically.
type AuthorizeParams struct {
	ChargeParams
	AutoVoidHours int
}

func (c *Client) CreateAuthorization(ctx context.Context, params AuthorizeParams) (domain.Resource, error) {
	body, err := c.chargeBody(params.ChargeParams)
	if err != nil {
		return nil, err
	}
	if params.AutoVoidHours > 0 {
		body["auto"] = map[string]any{
			"type": "VOID",
			"time": params.AutoVoidHours,
		}
	}
	return c.postResource(ctx, "authorize", body)
}

func (c *Client) RetrieveAuthorization(ctx context.Context, authorizationID string) (domain.Resource, error) {
	path, err := resourcePath("authorize", authorizationID)
	if err != nil {
		return nil, err
	}
	return c.getResource(ctx, path)
}

func (c *Client) VoidAuthorization(ctx context.Context, authorizationID string) (domain.Resource, error) {
	path, err := resourcePath("authorize", authorizationID)
	if err != nil {
		return nil, err
	}
	return c.postResource(ctx, path+"/void", nil)
}
