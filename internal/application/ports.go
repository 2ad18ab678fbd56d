package application

import (
	"context"

	"github.com/DanielPopoola/gulfpay/internal/domain"
)

// ChargeRetriever is the port for the upstream payment API. The returned
// resource is whatever object the API answered with, which is not necessarily
// a charge.
type ChargeRetriever interface {
	RetrieveCharge(ctx context.Context, chargeID string) (domain.Resource, error)
}
