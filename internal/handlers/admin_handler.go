package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/worldlegendscup/commerce-api/internal/models"
	"github.com/worldlegendscup/commerce-api/internal/repository"
)

// AdminHandler exposes the back-office slices over the collections this
// service owns: coupon management and order lookup. Routes are guarded by
// API-key middleware.
type AdminHandler struct {
	coupons repository.CouponRepository
	orders  repository.OrderRepository
	log     *slog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(coupons repository.CouponRepository, orders repository.OrderRepository, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		coupons: coupons,
		orders:  orders,
		log:     log,
	}
}

// CreateCoupon handles POST /api/admin/coupon.
func (h *AdminHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var c models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if c.Code == "" {
		WriteError(w, http.StatusBadRequest, "Coupon code is required", h.log)
		return
	}
	if c.Type != models.CouponPercentage && c.Type != models.CouponFixed {
		WriteError(w, http.StatusBadRequest, "Coupon type must be percentage or fixed", h.log)
		return
	}
	if c.Value.IsNegative() || c.Value.IsZero() {
		WriteError(w, http.StatusBadRequest, "Coupon value must be positive", h.log)
		return
	}

	c.UsedCount = 0
	if err := h.coupons.Create(r.Context(), &c); err != nil {
		h.log.Error("failed to create coupon", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	h.log.Info("coupon created", "code", c.Code, "type", c.Type)
	WriteJSON(w, http.StatusCreated, c, h.log)
}

// ListCoupons handles GET /api/admin/coupon.
func (h *AdminHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		h.log.Error("failed to list coupons", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}
	WriteJSON(w, http.StatusOK, coupons, h.log)
}

// GetOrder handles GET /api/admin/order/{orderID}.
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
			return
		}
		h.log.Error("failed to fetch order", "order_id", orderID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}
	WriteJSON(w, http.StatusOK, order, h.log)
}
