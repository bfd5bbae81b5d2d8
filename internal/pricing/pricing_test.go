package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/worldlegendscup/commerce-api/internal/models"
)

func line(price string, qty int) models.CartLine {
	return models.CartLine{
		ProductID:   1,
		ProductName: "Home Jersey",
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
	}
}

func TestCalculator_Compute(t *testing.T) {
	calc := NewCalculator(DefaultRules())

	tests := []struct {
		name         string
		lines        []models.CartLine
		discount     string
		wantSubtotal string
		wantShipping string
		wantTax      string
		wantDiscount string
		wantTotal    string
		wantErr      error
	}{
		{
			name:     "empty cart",
			lines:    nil,
			discount: "0",
			wantErr:  ErrEmptyCart,
		},
		{
			name:         "single line no discount",
			lines:        []models.CartLine{line("12.50", 2)},
			discount:     "0",
			wantSubtotal: "25",
			wantShipping: "9.99",
			wantTax:      "2",
			wantDiscount: "0",
			wantTotal:    "36.99",
		},
		{
			name: "multiple lines sum to subtotal",
			lines: []models.CartLine{
				line("10", 3),
				line("5.25", 4),
			},
			discount:     "0",
			wantSubtotal: "51",
			wantShipping: "9.99",
			wantTax:      "4.08",
			wantDiscount: "0",
			wantTotal:    "65.07",
		},
		{
			name:         "ten percent off fifty",
			lines:        []models.CartLine{line("50", 1)},
			discount:     "5",
			wantSubtotal: "50",
			wantShipping: "9.99",
			wantTax:      "3.6",
			wantDiscount: "5",
			wantTotal:    "58.59",
		},
		{
			name:         "free shipping above threshold",
			lines:        []models.CartLine{line("150", 1)},
			discount:     "0",
			wantSubtotal: "150",
			wantShipping: "0",
			wantTax:      "12",
			wantDiscount: "0",
			wantTotal:    "162",
		},
		{
			name:         "free shipping exactly at threshold",
			lines:        []models.CartLine{line("100", 1)},
			discount:     "0",
			wantSubtotal: "100",
			wantShipping: "0",
			wantTax:      "8",
			wantDiscount: "0",
			wantTotal:    "108",
		},
		{
			name:         "paid shipping just below threshold",
			lines:        []models.CartLine{line("99.99", 1)},
			discount:     "0",
			wantSubtotal: "99.99",
			wantShipping: "9.99",
			wantTax:      "7.9992",
			wantDiscount: "0",
			wantTotal:    "117.9792",
		},
		{
			name:         "discount never touches shipping",
			lines:        []models.CartLine{line("50", 1)},
			discount:     "50",
			wantSubtotal: "50",
			wantShipping: "9.99",
			wantTax:      "0",
			wantDiscount: "50",
			wantTotal:    "9.99",
		},
		{
			name:         "oversized discount clamps to subtotal",
			lines:        []models.CartLine{line("30", 1)},
			discount:     "80",
			wantSubtotal: "30",
			wantShipping: "9.99",
			wantTax:      "0",
			wantDiscount: "30",
			wantTotal:    "9.99",
		},
		{
			name:         "negative discount treated as zero",
			lines:        []models.CartLine{line("20", 1)},
			discount:     "-5",
			wantSubtotal: "20",
			wantShipping: "9.99",
			wantTax:      "1.6",
			wantDiscount: "0",
			wantTotal:    "31.59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Compute(tt.lines, decimal.RequireFromString(tt.discount))

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("Compute() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compute() unexpected error = %v", err)
			}

			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"subtotal", got.Subtotal, tt.wantSubtotal},
				{"shipping", got.Shipping, tt.wantShipping},
				{"tax", got.Tax, tt.wantTax},
				{"discount", got.Discount, tt.wantDiscount},
				{"total", got.Total, tt.wantTotal},
			}
			for _, c := range checks {
				if !c.got.Equal(decimal.RequireFromString(c.want)) {
					t.Errorf("Compute() %s = %s, want %s", c.field, c.got, c.want)
				}
			}

			if got.Total.IsNegative() {
				t.Errorf("Compute() total is negative: %s", got.Total)
			}
		})
	}
}

func TestCalculator_TotalInvariant(t *testing.T) {
	calc := NewCalculator(DefaultRules())

	lines := []models.CartLine{line("37.45", 2), line("8.99", 1)}
	discount := decimal.RequireFromString("12.30")

	got, err := calc.Compute(lines, discount)
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}

	// total == (subtotal - discount) * (1 + taxRate) + shipping
	discounted := got.Subtotal.Sub(got.Discount)
	want := discounted.Add(discounted.Mul(DefaultRules().TaxRate)).Add(got.Shipping)
	if !got.Total.Equal(want) {
		t.Errorf("total invariant violated: got %s, want %s", got.Total, want)
	}
}
