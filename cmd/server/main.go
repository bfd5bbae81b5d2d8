package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"

	"github.com/worldlegendscup/commerce-api/internal/config"
	"github.com/worldlegendscup/commerce-api/internal/coupon"
	"github.com/worldlegendscup/commerce-api/internal/handlers"
	"github.com/worldlegendscup/commerce-api/internal/middleware"
	"github.com/worldlegendscup/commerce-api/internal/payment"
	"github.com/worldlegendscup/commerce-api/internal/pricing"
	"github.com/worldlegendscup/commerce-api/internal/repository"
	"github.com/worldlegendscup/commerce-api/internal/service"
	"github.com/worldlegendscup/commerce-api/internal/validation"
	"github.com/worldlegendscup/commerce-api/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	// Money fields serialize as JSON numbers, matching the storefront client.
	decimal.MarshalJSONWithoutQuotes = true

	log.Info("starting commerce api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"currency", cfg.Currency,
	)

	// Initialize repositories
	var (
		couponRepo repository.CouponRepository
		orderRepo  repository.OrderRepository
	)
	if cfg.Database.URL != "" {
		db, err := repository.OpenPostgres(cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		couponRepo = repository.NewPostgresCouponRepository(db)
		orderRepo = repository.NewPostgresOrderRepository(db)
		log.Info("connected to postgres")
	} else {
		couponRepo = repository.NewInMemoryCouponRepository()
		orderRepo = repository.NewInMemoryOrderRepository()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Initialize payment provider
	provider := payment.NewStripeProvider(cfg.Stripe.SecretKey)
	if cfg.Stripe.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, checkout will answer 503")
	}

	// Initialize pricing rules
	calc := pricing.NewCalculator(pricing.Rules{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.Pricing.FreeShippingThreshold),
		ShippingFee:           decimal.NewFromFloat(cfg.Pricing.ShippingFee),
		TaxRate:               decimal.NewFromFloat(cfg.Pricing.TaxRate),
	})

	// Initialize services
	checkoutService := service.NewCheckoutService(couponRepo, orderRepo, provider, calc, cfg.Currency, log)
	resolver := coupon.NewResolver(couponRepo)
	v := validation.New()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, v, log)
	couponHandler := handlers.NewCouponHandler(resolver, v, log)
	adminHandler := handlers.NewAdminHandler(couponRepo, orderRepo, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Admin-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Checkout endpoint
		r.Post("/checkout", checkoutHandler.Checkout)

		// Coupon pre-checkout validation
		r.Post("/coupon/validate", couponHandler.ValidateCoupon)

		// Admin back-office routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminKeyAuth(cfg.Admin))
			r.Post("/coupon", adminHandler.CreateCoupon)
			r.Get("/coupon", adminHandler.ListCoupons)
			r.Get("/order/{orderID}", adminHandler.GetOrder)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
