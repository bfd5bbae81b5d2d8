package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/worldlegendscup/commerce-api/internal/models"
)

// CheckoutRequest is the POST /api/checkout body. Cart lines are loosely
// typed JSON upstream; this schema rejects malformed input before it
// reaches the pricing calculator.
type CheckoutRequest struct {
	Items           []models.CartLine `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.Address    `json:"shippingAddress" validate:"required"`
	Email           string            `json:"email" validate:"required,email"`
	CouponCode      string            `json:"couponCode,omitempty"`
}

// ValidateCouponRequest is the POST /api/coupon/validate body.
type ValidateCouponRequest struct {
	Code       string  `json:"code" validate:"required"`
	OrderTotal float64 `json:"orderTotal" validate:"gte=0"`
}

// New returns a configured validator with struct-level validation for
// CheckoutRequest registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})
	return v
}

// checkoutStructValidation covers the constraint tags can't express:
// unit prices are decimals and must be non-negative.
func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)

	for _, item := range req.Items {
		if item.UnitPrice.IsNegative() {
			sl.ReportError(item.UnitPrice, "unitPrice", "UnitPrice", "gte", "0")
			return
		}
	}
}

// ErrorsToMap flattens validator errors into a field -> message map for
// error responses.
func ErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Error()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
