package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponType enumerates supported discount strategies.
type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// Coupon is a discount code with eligibility rules and a usage cap.
// Codes are stored upper-cased; lookups are case-insensitive.
type Coupon struct {
	ID             int64            `json:"id" gorm:"primaryKey"`
	Code           string           `json:"code" gorm:"uniqueIndex"`
	Type           CouponType       `json:"type"`
	Value          decimal.Decimal  `json:"value" gorm:"type:numeric"`
	IsActive       bool             `json:"isActive"`
	ExpiresAt      *time.Time       `json:"expiresAt,omitempty"`
	MaxUses        *int             `json:"maxUses,omitempty"`
	UsedCount      int              `json:"usedCount"`
	MinOrderAmount *decimal.Decimal `json:"minOrderAmount,omitempty" gorm:"type:numeric"`
	CreatedAt      time.Time        `json:"createdAt"`
}
