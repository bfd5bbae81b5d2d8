package payment

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no payment credentials are set. Checkout
// maps it to a 503: the order is never created without an intent.
var ErrNotConfigured = errors.New("payment provider not configured")

// IntentParams describes one chargeable intent to create.
type IntentParams struct {
	// AmountMinor is the total in the currency's minor units (cents).
	AmountMinor    int64
	Currency       string
	ReceiptEmail   string
	IdempotencyKey string
	Metadata       map[string]string
}

// Intent is the opaque handle the processor returns. ClientSecret goes back
// to the browser to confirm the charge; ID is stored on the order.
type Intent struct {
	ID           string
	ClientSecret string
}

// Provider creates payment intents with an external processor. Implementations
// must be safe for concurrent use.
type Provider interface {
	CreateIntent(ctx context.Context, params IntentParams) (*Intent, error)
}
