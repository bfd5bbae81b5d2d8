package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/worldlegendscup/commerce-api/internal/models"
)

// InMemoryCouponRepository implements CouponRepository with in-memory
// storage. Used by tests and when no DATABASE_URL is configured.
type InMemoryCouponRepository struct {
	mu      sync.RWMutex
	coupons map[int64]*models.Coupon
	nextID  int64
}

// NewInMemoryCouponRepository creates an empty in-memory coupon repository.
func NewInMemoryCouponRepository() *InMemoryCouponRepository {
	return &InMemoryCouponRepository{
		coupons: make(map[int64]*models.Coupon),
		nextID:  1,
	}
}

func (r *InMemoryCouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code = strings.ToUpper(code)
	for _, c := range r.coupons {
		if c.Code == code && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrCouponNotFound
}

// IncrementUsage mirrors the conditional update the Postgres implementation
// performs: the bump only applies while the cap has headroom.
func (r *InMemoryCouponRepository) IncrementUsage(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[id]
	if !ok {
		return ErrCouponNotFound
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return ErrUsageExhausted
	}
	c.UsedCount++
	return nil
}

func (r *InMemoryCouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.nextID
	r.nextID++
	c.Code = strings.ToUpper(c.Code)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	cp := *c
	r.coupons[c.ID] = &cp
	return nil
}

func (r *InMemoryCouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupons := make([]models.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		coupons = append(coupons, *c)
	}
	return coupons, nil
}

// InMemoryOrderRepository implements OrderRepository with in-memory storage.
type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
}

// NewInMemoryOrderRepository creates an empty in-memory order repository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]*models.Order),
	}
}

func (r *InMemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return ErrDuplicateOrderID
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *InMemoryOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *InMemoryOrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.IdempotencyKey == key {
			cp := *order
			return &cp, nil
		}
	}
	return nil, ErrOrderNotFound
}
