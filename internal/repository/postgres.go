package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/worldlegendscup/commerce-api/internal/models"
)

// OpenPostgres connects to the hosted Postgres instance and ensures the
// schema exists.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := db.AutoMigrate(&models.Coupon{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}

// PostgresCouponRepository implements CouponRepository on GORM/Postgres.
type PostgresCouponRepository struct {
	db *gorm.DB
}

// NewPostgresCouponRepository creates a Postgres-backed coupon repository.
func NewPostgresCouponRepository(db *gorm.DB) *PostgresCouponRepository {
	return &PostgresCouponRepository{db: db}
}

// FindByCode returns the active coupon with the given code. Codes are stored
// upper-cased, so the lookup upper-cases its input instead of scanning with
// UPPER() on the column.
func (r *PostgresCouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", strings.ToUpper(code), true).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("querying coupon: %w", err)
	}
	return &c, nil
}

// IncrementUsage performs the conditional counter bump at the storage
// boundary. Multiple server instances race on this row; the WHERE clause is
// what keeps the cap from being overrun.
func (r *PostgresCouponRepository) IncrementUsage(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return fmt.Errorf("incrementing coupon usage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUsageExhausted
	}
	return nil
}

func (r *PostgresCouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(c.Code)
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("creating coupon: %w", err)
	}
	return nil
}

func (r *PostgresCouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return coupons, nil
}

// PostgresOrderRepository implements OrderRepository on GORM/Postgres.
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a Postgres-backed order repository.
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Create writes the order header and items in one transaction. GORM inserts
// the associated items with the header; a duplicate generated id surfaces as
// ErrDuplicateOrderID for the caller's regenerate-and-retry.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrderID
		}
		return fmt.Errorf("creating order: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("querying order: %w", err)
	}
	return &order, nil
}

func (r *PostgresOrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "idempotency_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("querying order by idempotency key: %w", err)
	}
	return &order, nil
}
