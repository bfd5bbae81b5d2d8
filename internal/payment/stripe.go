package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeProvider implements Provider on the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a provider for the given secret key. An empty
// key yields a provider whose CreateIntent fails with ErrNotConfigured, so
// a misconfigured deployment degrades to 503s rather than crashing at boot.
func NewStripeProvider(secretKey string) *StripeProvider {
	if secretKey == "" {
		return &StripeProvider{}
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

// CreateIntent creates a Stripe PaymentIntent for the given amount. The
// idempotency key makes a retried call return the original intent instead of
// opening a second charge.
func (p *StripeProvider) CreateIntent(ctx context.Context, params IntentParams) (*Intent, error) {
	if p.api == nil {
		return nil, ErrNotConfigured
	}

	piParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.AmountMinor),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	piParams.Context = ctx
	if params.ReceiptEmail != "" {
		piParams.ReceiptEmail = stripe.String(params.ReceiptEmail)
	}
	if params.IdempotencyKey != "" {
		piParams.IdempotencyKey = stripe.String(params.IdempotencyKey)
	}
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(piParams)
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
