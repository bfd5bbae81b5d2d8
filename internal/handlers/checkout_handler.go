package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/worldlegendscup/commerce-api/internal/service"
	"github.com/worldlegendscup/commerce-api/internal/validation"
)

// CheckoutHandler handles checkout HTTP requests.
type CheckoutHandler struct {
	checkout  *service.CheckoutService
	validator *validatorv10.Validate
	log       *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout *service.CheckoutService, v *validatorv10.Validate, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:  checkout,
		validator: v,
		log:       log,
	}
}

// CheckoutResponse is the POST /api/checkout response body.
type CheckoutResponse struct {
	OrderID      string          `json:"orderId"`
	ClientSecret string          `json:"clientSecret"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Tax          decimal.Decimal `json:"tax"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req validation.CheckoutRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode checkout request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation_failed",
			"fields": validation.ErrorsToMap(err),
		}, h.log)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), service.CheckoutInput{
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		Email:           req.Email,
		CouponCode:      req.CouponCode,
		IdempotencyKey:  r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.log.Error("checkout failed", "error", err)

		switch {
		case errors.Is(err, service.ErrEmptyCart):
			WriteError(w, http.StatusBadRequest, "Cart must contain at least one item", h.log)
		case errors.Is(err, service.ErrInvalidQuantity):
			WriteError(w, http.StatusBadRequest, "Quantity must be positive", h.log)
		case errors.Is(err, service.ErrPaymentUnavailable):
			WriteError(w, http.StatusServiceUnavailable, "Payment service unavailable", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, CheckoutResponse{
		OrderID:      result.OrderID,
		ClientSecret: result.ClientSecret,
		Subtotal:     result.Breakdown.Subtotal,
		Shipping:     result.Breakdown.Shipping,
		Tax:          result.Breakdown.Tax,
		Discount:     result.Breakdown.Discount,
		Total:        result.Breakdown.Total,
	}, h.log)

	h.log.Info("checkout completed",
		"order_id", result.OrderID,
		"total", result.Breakdown.Total,
		"items_count", len(req.Items),
		"replayed", result.Replayed,
	)
}
