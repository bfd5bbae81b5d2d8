package models

import "github.com/shopspring/decimal"

// CartLine is one product entry submitted at checkout. The client owns the
// cart; lines are never persisted as-is and live only for one request.
type CartLine struct {
	ProductID   int64           `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gte=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
}

// PricingBreakdown is the computed money breakdown for one checkout.
// Derived fresh on every call, never cached or persisted on its own.
type PricingBreakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}
