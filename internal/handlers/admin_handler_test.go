package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/worldlegendscup/commerce-api/internal/models"
	"github.com/worldlegendscup/commerce-api/internal/repository"
	"github.com/worldlegendscup/commerce-api/pkg/logger"
)

func TestAdminHandler_CreateCoupon(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid percentage coupon",
			body:           `{"code":"launch15","type":"percentage","value":15,"isActive":true}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing code",
			body:           `{"type":"fixed","value":5,"isActive":true}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad type",
			body:           `{"code":"X","type":"bogo","value":5}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero value",
			body:           `{"code":"X","type":"fixed","value":0}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAdminHandler(
				repository.NewInMemoryCouponRepository(),
				repository.NewInMemoryOrderRepository(),
				logger.New("error"),
			)

			req := httptest.NewRequest(http.MethodPost, "/api/admin/coupon", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()

			handler.CreateCoupon(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated {
				var c models.Coupon
				if err := json.NewDecoder(w.Body).Decode(&c); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if c.Code != "LAUNCH15" {
					t.Errorf("code = %q, want upper-cased LAUNCH15", c.Code)
				}
				if c.UsedCount != 0 {
					t.Errorf("used count = %d, want 0", c.UsedCount)
				}
			}
		})
	}
}

func TestAdminHandler_GetOrder(t *testing.T) {
	orders := repository.NewInMemoryOrderRepository()
	order := &models.Order{
		ID:     "WLC-TEST0001",
		Email:  "dana@example.com",
		Status: models.OrderPending,
		Total:  decimal.RequireFromString("58.59"),
	}
	if err := orders.Create(context.Background(), order); err != nil {
		t.Fatalf("seeding order: %v", err)
	}

	handler := NewAdminHandler(repository.NewInMemoryCouponRepository(), orders, logger.New("error"))

	r := chi.NewRouter()
	r.Get("/api/admin/order/{orderID}", handler.GetOrder)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/order/WLC-TEST0001", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var got models.Order
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if got.ID != order.ID || got.Email != order.Email {
			t.Errorf("order = %+v, want id %s email %s", got, order.ID, order.Email)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/order/WLC-MISSING1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
