package coupon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/worldlegendscup/commerce-api/internal/models"
	"github.com/worldlegendscup/commerce-api/internal/repository"
)

// fakeStore emulates the repository contract: upper-cased codes, active
// coupons only.
type fakeStore struct {
	coupons map[string]*models.Coupon
	err     error
	lookups int
}

func (s *fakeStore) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.coupons[code]
	if !ok || !c.IsActive {
		return nil, repository.ErrCouponNotFound
	}
	cp := *c
	return &cp, nil
}

func intPtr(i int) *int { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func timePtr(t time.Time) *time.Time { return &t }

func TestResolver_Resolve(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{coupons: map[string]*models.Coupon{
		"SAVE10": {
			ID: 1, Code: "SAVE10", Type: models.CouponPercentage,
			Value: decimal.NewFromInt(10), IsActive: true,
		},
		"FIVEOFF": {
			ID: 2, Code: "FIVEOFF", Type: models.CouponFixed,
			Value: decimal.NewFromInt(5), IsActive: true,
		},
		"EXPIRED": {
			ID: 3, Code: "EXPIRED", Type: models.CouponPercentage,
			Value: decimal.NewFromInt(20), IsActive: true,
			ExpiresAt: timePtr(now.Add(-24 * time.Hour)),
		},
		"EXHAUSTED": {
			ID: 4, Code: "EXHAUSTED", Type: models.CouponPercentage,
			Value: decimal.NewFromInt(20), IsActive: true,
			MaxUses: intPtr(100), UsedCount: 100,
		},
		"BIGSPENDER": {
			ID: 5, Code: "BIGSPENDER", Type: models.CouponFixed,
			Value: decimal.NewFromInt(25), IsActive: true,
			MinOrderAmount: decPtr("200"),
		},
		"DISABLED": {
			ID: 6, Code: "DISABLED", Type: models.CouponFixed,
			Value: decimal.NewFromInt(5), IsActive: false,
		},
	}}
	resolver := NewResolver(store)

	tests := []struct {
		name         string
		code         string
		subtotal     string
		wantOutcome  Outcome
		wantDiscount string
		wantReason   string
	}{
		{
			name:         "no code means no lookup",
			code:         "",
			subtotal:     "50",
			wantOutcome:  OutcomeNoCoupon,
			wantDiscount: "0",
		},
		{
			name:         "unknown code rejected silently",
			code:         "NOPE",
			subtotal:     "50",
			wantOutcome:  OutcomeRejected,
			wantDiscount: "0",
			wantReason:   ReasonNotFound,
		},
		{
			name:         "percentage discount",
			code:         "SAVE10",
			subtotal:     "50",
			wantOutcome:  OutcomeApplied,
			wantDiscount: "5",
		},
		{
			name:         "lowercase code matches",
			code:         "save10",
			subtotal:     "50",
			wantOutcome:  OutcomeApplied,
			wantDiscount: "5",
		},
		{
			name:         "fixed discount",
			code:         "FIVEOFF",
			subtotal:     "50",
			wantOutcome:  OutcomeApplied,
			wantDiscount: "5",
		},
		{
			name:         "fixed discount clamped to subtotal",
			code:         "FIVEOFF",
			subtotal:     "3.50",
			wantOutcome:  OutcomeApplied,
			wantDiscount: "3.50",
		},
		{
			name:         "expired coupon",
			code:         "EXPIRED",
			subtotal:     "50",
			wantOutcome:  OutcomeRejected,
			wantDiscount: "0",
			wantReason:   ReasonExpired,
		},
		{
			name:         "usage cap reached",
			code:         "EXHAUSTED",
			subtotal:     "50",
			wantOutcome:  OutcomeRejected,
			wantDiscount: "0",
			wantReason:   ReasonExhausted,
		},
		{
			name:         "minimum order not met",
			code:         "BIGSPENDER",
			subtotal:     "150",
			wantOutcome:  OutcomeRejected,
			wantDiscount: "0",
			wantReason:   ReasonMinOrder,
		},
		{
			name:         "minimum order met exactly",
			code:         "BIGSPENDER",
			subtotal:     "200",
			wantOutcome:  OutcomeApplied,
			wantDiscount: "25",
		},
		{
			name:         "inactive coupon is invisible",
			code:         "DISABLED",
			subtotal:     "50",
			wantOutcome:  OutcomeRejected,
			wantDiscount: "0",
			wantReason:   ReasonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolver.Resolve(context.Background(), tt.code, decimal.RequireFromString(tt.subtotal), now)
			if err != nil {
				t.Fatalf("Resolve() unexpected error = %v", err)
			}

			if res.Outcome != tt.wantOutcome {
				t.Errorf("Resolve() outcome = %s, want %s", res.Outcome, tt.wantOutcome)
			}
			if !res.Discount.Equal(decimal.RequireFromString(tt.wantDiscount)) {
				t.Errorf("Resolve() discount = %s, want %s", res.Discount, tt.wantDiscount)
			}
			if tt.wantReason != "" && res.Reason != tt.wantReason {
				t.Errorf("Resolve() reason = %s, want %s", res.Reason, tt.wantReason)
			}
		})
	}
}

func TestResolver_EmptyCodeSkipsLookup(t *testing.T) {
	store := &fakeStore{coupons: map[string]*models.Coupon{}}
	resolver := NewResolver(store)

	_, err := resolver.Resolve(context.Background(), "", decimal.NewFromInt(50), time.Now())
	if err != nil {
		t.Fatalf("Resolve() unexpected error = %v", err)
	}
	if store.lookups != 0 {
		t.Errorf("Resolve() performed %d lookups for an empty code, want 0", store.lookups)
	}
}

func TestResolver_StoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	resolver := NewResolver(&fakeStore{err: storeErr})

	_, err := resolver.Resolve(context.Background(), "SAVE10", decimal.NewFromInt(50), time.Now())
	if !errors.Is(err, storeErr) {
		t.Errorf("Resolve() error = %v, want wrapped %v", err, storeErr)
	}
}

func TestResolver_ExpiresAtBoundary(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	// A coupon expiring exactly now is still valid: expiresAt >= now.
	store := &fakeStore{coupons: map[string]*models.Coupon{
		"LASTCALL": {
			ID: 1, Code: "LASTCALL", Type: models.CouponPercentage,
			Value: decimal.NewFromInt(10), IsActive: true,
			ExpiresAt: timePtr(now),
		},
	}}
	resolver := NewResolver(store)

	res, err := resolver.Resolve(context.Background(), "LASTCALL", decimal.NewFromInt(100), now)
	if err != nil {
		t.Fatalf("Resolve() unexpected error = %v", err)
	}
	if res.Outcome != OutcomeApplied {
		t.Errorf("Resolve() outcome = %s, want %s", res.Outcome, OutcomeApplied)
	}
}
