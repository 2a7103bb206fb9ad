package adapter

import (
	"context"

	"github.com/shopspring/decimal"
)

// Payment is the provider-side view of a payment returned by the gateway.
// The confirmation payload is passed through to the checkout caller verbatim,
// so the fields mirror the provider response shape.
type Payment struct {
	ID           string       `json:"id"`
	Status       string       `json:"status"`
	Paid         bool         `json:"paid"`
	Amount       Amount       `json:"amount"`
	Confirmation Confirmation `json:"confirmation"`
	Description  string       `json:"description"`
	CreatedAt    string       `json:"created_at"`
}

type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type Confirmation struct {
	Type            string `json:"type"`
	ConfirmationURL string `json:"confirmation_url"`
}

// PaymentGateway is the hex port for the external payment processor.
// Implementations must propagate failures as domain.ErrGateway so callers can
// distinguish "provider down / rejected" from local faults.
type PaymentGateway interface {
	// CreatePayment opens a hosted-checkout payment. The amount is formatted
	// to exactly two decimal places in the settlement currency; returnURL is
	// where the gateway sends the customer after payment; meta carries the
	// structured correlation ids alongside the human-readable description.
	CreatePayment(ctx context.Context, amount decimal.Decimal, description, returnURL string, meta map[string]string) (*Payment, error)
	// CapturePayment finalizes a previously authorized charge.
	CapturePayment(ctx context.Context, paymentID string) (*Payment, error)
}
