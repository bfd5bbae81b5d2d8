package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/worldlegendscup/commerce-api/internal/models"
)

var (
	ErrEmptyCart = errors.New("cart must contain at least one item")
)

// Rules holds the store-wide pricing knobs. Shipping is waived at or above
// the free-shipping threshold; tax applies to the discounted subtotal only,
// never to shipping.
type Rules struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultRules returns the store defaults: free shipping from 100,
// 9.99 flat shipping below that, 8% tax.
func DefaultRules() Rules {
	return Rules{
		FreeShippingThreshold: decimal.NewFromInt(100),
		ShippingFee:           decimal.RequireFromString("9.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// Calculator computes pricing breakdowns. Pure and safe for concurrent use.
type Calculator struct {
	rules Rules
}

// NewCalculator creates a calculator with the given rules.
func NewCalculator(rules Rules) *Calculator {
	return &Calculator{rules: rules}
}

// Compute combines the cart lines and an already-resolved discount into a
// full breakdown:
//
//	subtotal = Σ unitPrice * quantity
//	shipping = 0 if subtotal >= threshold, else flat fee
//	tax      = (subtotal - discount) * taxRate
//	total    = (subtotal - discount) + shipping + tax
//
// The discount is clamped to the subtotal so the total can never go
// negative; a discount above the subtotal indicates a resolver defect.
func (c *Calculator) Compute(lines []models.CartLine, discount decimal.Decimal) (models.PricingBreakdown, error) {
	if len(lines) == 0 {
		return models.PricingBreakdown{}, ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	shipping := c.rules.ShippingFee
	if subtotal.GreaterThanOrEqual(c.rules.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	discounted := subtotal.Sub(discount)
	tax := discounted.Mul(c.rules.TaxRate)
	total := discounted.Add(shipping).Add(tax)

	return models.PricingBreakdown{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}, nil
}
