package services

import "github.com/DanielPopoola/gulfpay/internal/domain"

// Outcome is the result of a payment callback. A failed outcome may still carry
// the charge when it was retrieved but did not succeed.
type Outcome struct {
	success bool
	charge  *domain.Charge
	err     string
}

func succeeded(charge *domain.Charge) Outcome {
	return Outcome{success: true, charge: charge}
}

func failed(charge *domain.Charge, message string) Outcome {
	return Outcome{charge: charge, err: message}
}

func (o Outcome) Success() bool {
	return o.success
}

// Charge is nil when no charge could be retrieved.
func (o Outcome) Charge() *domain.Charge {
	return o.charge
}

// Error is empty on success.
func (o Outcome) Error() string {
	return o.err
}
