package testhelpers

import (
	"encoding/json"
	"testing"

	"github.com/DanielPopoola/gulfpay/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// ChargePayload returns an API charge object with the given status. Amounts are
// json.Number, as the client decodes them.
func ChargePayload(status domain.ChargeStatus) map[string]any {
	return map[string]any{
		"id":       "chg_" + uuid.NewString()[:8],
		"object":   domain.ObjectCharge,
		"amount":   json.Number("12.500"),
		"currency": "KWD",
		"status":   string(status),
		"response": map[string]any{
			"code":    "000",
			"message": "Captured",
		},
		"reference": map[string]any{
			"transaction": "txn_" + uuid.NewString()[:8],
			"order":       "ord_" + uuid.NewString()[:8],
		},
		"customer": map[string]any{
			"id":         "cus_" + uuid.NewString()[:8],
			"first_name": "Mona",
			"email":      "mona@example.com",
		},
	}
}

// NewCharge decodes ChargePayload into a *domain.Charge.
func NewCharge(t *testing.T, status domain.ChargeStatus) *domain.Charge {
	t.Helper()

	res, err := domain.DecodeResource(ChargePayload(status))
	require.NoError(t, err)

	charge, ok := res.(*domain.Charge)
	require.True(t, ok)
	return charge
}
