package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/worldlegendscup/commerce-api/internal/models"
	"github.com/worldlegendscup/commerce-api/internal/repository"
)

// Store provides coupon lookups. FindByCode matches case-insensitively
// against active coupons only and reports a miss with
// repository.ErrCouponNotFound.
type Store interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// Outcome distinguishes how a code resolved. The checkout response treats
// NoCoupon and Rejected identically (zero discount); keeping them apart lets
// the orchestrator log rejections without changing the response contract.
type Outcome string

const (
	OutcomeNoCoupon Outcome = "no_coupon"
	OutcomeApplied  Outcome = "applied"
	OutcomeRejected Outcome = "rejected"
)

// Rejection reasons reported on OutcomeRejected.
const (
	ReasonNotFound  = "not_found"
	ReasonExpired   = "expired"
	ReasonExhausted = "usage_limit_reached"
	ReasonMinOrder  = "minimum_order_not_met"
)

// Resolution is the result of resolving one coupon code against a subtotal.
type Resolution struct {
	Outcome  Outcome
	Discount decimal.Decimal
	Coupon   *models.Coupon
	Reason   string
}

// Resolver evaluates coupon codes against eligibility rules.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks up code and computes the discount it grants on subtotal.
// An empty code resolves to NoCoupon without a lookup. Unknown or
// ineligible codes resolve to Rejected with a zero discount; they are never
// errors, so a bad code degrades to "no discount" instead of failing
// checkout. The error return is reserved for store failures.
func (r *Resolver) Resolve(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (Resolution, error) {
	if code == "" {
		return Resolution{Outcome: OutcomeNoCoupon, Discount: decimal.Zero}, nil
	}

	c, err := r.store.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return Resolution{Outcome: OutcomeRejected, Discount: decimal.Zero, Reason: ReasonNotFound}, nil
		}
		return Resolution{}, fmt.Errorf("coupon lookup: %w", err)
	}

	if reason := eligibility(c, subtotal, now); reason != "" {
		return Resolution{Outcome: OutcomeRejected, Discount: decimal.Zero, Coupon: c, Reason: reason}, nil
	}

	return Resolution{
		Outcome:  OutcomeApplied,
		Discount: discountFor(c, subtotal),
		Coupon:   c,
	}, nil
}

// eligibility checks the three independent predicates; all must pass.
// Returns the first failing reason, or "" when eligible.
func eligibility(c *models.Coupon, subtotal decimal.Decimal, now time.Time) string {
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return ReasonExpired
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return ReasonExhausted
	}
	if c.MinOrderAmount != nil && subtotal.LessThan(*c.MinOrderAmount) {
		return ReasonMinOrder
	}
	return ""
}

// discountFor computes the discount an eligible coupon grants. Percentage
// coupons take value% of the subtotal; fixed coupons take value directly,
// clamped to the subtotal so a fixed discount never exceeds the order value.
func discountFor(c *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	switch c.Type {
	case models.CouponPercentage:
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
	case models.CouponFixed:
		if c.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return c.Value
	default:
		return decimal.Zero
	}
}
