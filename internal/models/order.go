package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks fulfilment; transitions after creation happen in the
// admin back-office and payment webhook, outside this service.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus tracks the charge lifecycle, driven by the payment
// processor's webhook after creation.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is the persisted record of one checkout, created before payment is
// confirmed. ID format is "WLC-" plus 8 chars of [A-Z0-9].
type Order struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	UserID           string          `json:"userId,omitempty"`
	Email            string          `json:"email"`
	Status           OrderStatus     `json:"status"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	Subtotal         decimal.Decimal `json:"subtotal" gorm:"type:numeric"`
	Shipping         decimal.Decimal `json:"shipping" gorm:"type:numeric"`
	Tax              decimal.Decimal `json:"tax" gorm:"type:numeric"`
	Discount         decimal.Decimal `json:"discount" gorm:"type:numeric"`
	Total            decimal.Decimal `json:"total" gorm:"type:numeric"`
	ShippingAddress  Address         `json:"shippingAddress" gorm:"embedded;embeddedPrefix:ship_"`
	PaymentIntentRef string          `json:"paymentIntentRef"`
	IdempotencyKey   string          `json:"-" gorm:"index"`
	Items            []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// OrderItem is one cart line frozen into an order. Immutable once written.
type OrderItem struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	OrderID     string          `json:"orderId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" gorm:"type:numeric"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
}

// Address is the shipping destination captured at checkout.
type Address struct {
	Name    string `json:"name"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}
