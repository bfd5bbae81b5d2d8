package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/worldlegendscup/commerce-api/internal/coupon"
	"github.com/worldlegendscup/commerce-api/internal/models"
	"github.com/worldlegendscup/commerce-api/internal/payment"
	"github.com/worldlegendscup/commerce-api/internal/pricing"
	"github.com/worldlegendscup/commerce-api/internal/repository"
)

var (
	ErrEmptyCart          = errors.New("cart must contain at least one item")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrPaymentUnavailable = errors.New("payment provider unavailable")
)

// CheckoutInput is one checkout request after boundary validation.
type CheckoutInput struct {
	Items           []models.CartLine
	ShippingAddress models.Address
	Email           string
	UserID          string
	CouponCode      string
	// IdempotencyKey ties retries of the same checkout to one payment
	// intent and one order. Empty means the client did not supply one and
	// the service generates its own.
	IdempotencyKey string
}

// CheckoutResult is returned to the client to complete payment in the
// browser.
type CheckoutResult struct {
	OrderID      string
	ClientSecret string
	Breakdown    models.PricingBreakdown
	// Replayed is true when the idempotency key matched an order created by
	// an earlier call and no new order was written.
	Replayed bool
}

// CheckoutService orchestrates the checkout pipeline: coupon resolution,
// pricing, payment-intent creation and order persistence.
type CheckoutService struct {
	resolver *coupon.Resolver
	calc     *pricing.Calculator
	coupons  repository.CouponRepository
	orders   repository.OrderRepository
	provider payment.Provider
	currency string
	log      *slog.Logger
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	coupons repository.CouponRepository,
	orders repository.OrderRepository,
	provider payment.Provider,
	calc *pricing.Calculator,
	currency string,
	log *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		resolver: coupon.NewResolver(coupons),
		calc:     calc,
		coupons:  coupons,
		orders:   orders,
		provider: provider,
		currency: currency,
		log:      log,
	}
}

// Checkout runs the pipeline for one cart. The chain is strictly sequential:
// resolve coupon, compute pricing, create the payment intent, then persist
// the order. The order is only ever written after an intent exists; a
// persistence failure after that point leaves an orphaned intent, which a
// retry with the same idempotency key resumes instead of duplicating.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	if input.IdempotencyKey == "" {
		input.IdempotencyKey = uuid.NewString()
	} else if result, err := s.replay(ctx, input.IdempotencyKey); err != nil {
		return nil, err
	} else if result != nil {
		return result, nil
	}

	resolution, err := s.resolver.Resolve(ctx, input.CouponCode, subtotalOf(input.Items), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolving coupon: %w", err)
	}
	if resolution.Outcome == coupon.OutcomeRejected {
		// Bad codes degrade to zero discount rather than failing checkout;
		// the distinction is kept for the logs only.
		s.log.Info("coupon rejected, proceeding without discount",
			"code", input.CouponCode,
			"reason", resolution.Reason,
		)
	}

	breakdown, err := s.calc.Compute(input.Items, resolution.Discount)
	if err != nil {
		if errors.Is(err, pricing.ErrEmptyCart) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("computing pricing: %w", err)
	}

	intent, err := s.provider.CreateIntent(ctx, payment.IntentParams{
		AmountMinor:    minorUnits(breakdown.Total),
		Currency:       s.currency,
		ReceiptEmail:   input.Email,
		IdempotencyKey: input.IdempotencyKey,
		Metadata: map[string]string{
			"email":       input.Email,
			"coupon_code": input.CouponCode,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	order := &models.Order{
		UserID:           input.UserID,
		Email:            input.Email,
		Status:           models.OrderPending,
		PaymentStatus:    models.PaymentPending,
		Subtotal:         breakdown.Subtotal,
		Shipping:         breakdown.Shipping,
		Tax:              breakdown.Tax,
		Discount:         breakdown.Discount,
		Total:            breakdown.Total,
		ShippingAddress:  input.ShippingAddress,
		PaymentIntentRef: intent.ID,
		IdempotencyKey:   input.IdempotencyKey,
		CreatedAt:        time.Now().UTC(),
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Size:        item.Size,
			Color:       item.Color,
		})
	}

	if err := s.persistWithRetry(ctx, order); err != nil {
		// The payment intent is not voided here; the idempotency key lets a
		// retried call pick it back up.
		return nil, fmt.Errorf("persisting order: %w", err)
	}

	if resolution.Outcome == coupon.OutcomeApplied {
		// Coupon usage is spent at order creation, before payment is
		// confirmed. The conditional increment can lose a race against
		// concurrent checkouts exhausting the cap; the discount already
		// granted is not revoked in that case.
		if err := s.coupons.IncrementUsage(ctx, resolution.Coupon.ID); err != nil {
			s.log.Warn("coupon usage increment failed",
				"code", resolution.Coupon.Code,
				"order_id", order.ID,
				"error", err,
			)
		}
	}

	return &CheckoutResult{
		OrderID:      order.ID,
		ClientSecret: intent.ClientSecret,
		Breakdown:    breakdown,
	}, nil
}

// replay returns the result of a previous checkout made under the same
// idempotency key, or nil when the key is unseen. The client secret is
// recovered by re-requesting the intent under the same key, which the
// processor answers with the original intent.
func (s *CheckoutService) replay(ctx context.Context, key string) (*CheckoutResult, error) {
	existing, err := s.orders.FindByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	intent, err := s.provider.CreateIntent(ctx, payment.IntentParams{
		AmountMinor:    minorUnits(existing.Total),
		Currency:       s.currency,
		ReceiptEmail:   existing.Email,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	s.log.Info("checkout replayed from idempotency key", "order_id", existing.ID)

	return &CheckoutResult{
		OrderID:      existing.ID,
		ClientSecret: intent.ClientSecret,
		Breakdown: models.PricingBreakdown{
			Subtotal: existing.Subtotal,
			Shipping: existing.Shipping,
			Tax:      existing.Tax,
			Discount: existing.Discount,
			Total:    existing.Total,
		},
		Replayed: true,
	}, nil
}

// persistWithRetry writes the order, regenerating the id and retrying once
// if the generated id collides with an existing row.
func (s *CheckoutService) persistWithRetry(ctx context.Context, order *models.Order) error {
	order.ID = generateOrderID()
	err := s.orders.Create(ctx, order)
	if errors.Is(err, repository.ErrDuplicateOrderID) {
		order.ID = generateOrderID()
		err = s.orders.Create(ctx, order)
	}
	return err
}

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateOrderID produces a human-readable order identifier: "WLC-" plus
// 8 chars drawn uniformly from [A-Z0-9]. No uniqueness check happens here;
// the storage layer's primary key catches the rare collision.
func generateOrderID() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return "WLC-" + string(b)
}

// minorUnits converts a decimal amount to the currency's minor units,
// rounding half up.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func subtotalOf(lines []models.CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}
