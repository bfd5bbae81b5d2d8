package repository

import (
	"context"
	"errors"

	"github.com/worldlegendscup/commerce-api/internal/models"
)

var (
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicateOrderID = errors.New("order id already exists")
	ErrUsageExhausted   = errors.New("coupon usage limit reached")
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	// FindByCode returns the active coupon matching code (case-insensitive),
	// or ErrCouponNotFound.
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	// IncrementUsage bumps used_count by one, conditionally: the update only
	// applies while used_count is below max_uses, so concurrent checkouts
	// cannot overrun the cap. Returns ErrUsageExhausted when the condition
	// fails.
	IncrementUsage(ctx context.Context, id int64) error
	Create(ctx context.Context, c *models.Coupon) error
	List(ctx context.Context) ([]models.Coupon, error)
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists the order header and its items in one transaction.
	// Returns ErrDuplicateOrderID on a primary-key conflict so the caller
	// can regenerate the id and retry.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// FindByIdempotencyKey returns the order previously created under the
	// given key, or ErrOrderNotFound.
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
}
