package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/worldlegendscup/commerce-api/internal/coupon"
	"github.com/worldlegendscup/commerce-api/internal/validation"
)

// CouponHandler handles the pre-checkout coupon validation endpoint.
type CouponHandler struct {
	resolver  *coupon.Resolver
	validator *validatorv10.Validate
	log       *slog.Logger
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(resolver *coupon.Resolver, v *validatorv10.Validate, log *slog.Logger) *CouponHandler {
	return &CouponHandler{
		resolver:  resolver,
		validator: v,
		log:       log,
	}
}

// ValidateCoupon handles POST /api/coupon/validate. It runs the same
// eligibility rules as checkout, but unlike checkout it surfaces the
// distinction between an unknown code (404) and an ineligible one (400),
// since the caller explicitly asked about this code.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validation.ValidateCouponRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	subtotal := decimal.NewFromFloat(req.OrderTotal)
	resolution, err := h.resolver.Resolve(r.Context(), req.Code, subtotal, time.Now().UTC())
	if err != nil {
		h.log.Error("coupon validation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	switch resolution.Outcome {
	case coupon.OutcomeApplied:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"valid":    true,
			"discount": resolution.Discount,
			"type":     resolution.Coupon.Type,
			"value":    resolution.Coupon.Value,
			"code":     resolution.Coupon.Code,
		}, h.log)
	case coupon.OutcomeRejected:
		status := http.StatusBadRequest
		if resolution.Reason == coupon.ReasonNotFound {
			status = http.StatusNotFound
		}
		WriteJSON(w, status, map[string]interface{}{
			"valid": false,
			"error": rejectionMessage(resolution.Reason),
			"code":  strings.ToUpper(req.Code),
		}, h.log)
	default:
		WriteError(w, http.StatusBadRequest, "Coupon code is required", h.log)
	}
}

func rejectionMessage(reason string) string {
	switch reason {
	case coupon.ReasonNotFound:
		return "Coupon not found"
	case coupon.ReasonExpired:
		return "Coupon has expired"
	case coupon.ReasonExhausted:
		return "Coupon usage limit reached"
	case coupon.ReasonMinOrder:
		return "Order total does not meet the coupon minimum"
	default:
		return "Coupon is not valid"
	}
}
