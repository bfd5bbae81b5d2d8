package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Database DatabaseConfig
	Stripe   StripeConfig
	Pricing  PricingConfig
	Currency string
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AdminConfig struct {
	APIKeys []string // Valid keys for the admin back-office routes
}

type DatabaseConfig struct {
	// URL is the Postgres DSN. Empty means in-memory storage (local dev).
	URL string
}

type StripeConfig struct {
	// SecretKey empty means checkout answers 503 until configured.
	SecretKey string
}

type PricingConfig struct {
	FreeShippingThreshold float64
	ShippingFee           float64
	TaxRate               float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Admin: AdminConfig{
			APIKeys: getEnvAsSlice("ADMIN_API_KEYS", []string{"admintest"}),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: getEnvAsFloat("FREE_SHIPPING_THRESHOLD", 100),
			ShippingFee:           getEnvAsFloat("SHIPPING_FEE", 9.99),
			TaxRate:               getEnvAsFloat("TAX_RATE", 0.08),
		},
		Currency: getEnv("CURRENCY", "usd"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Admin.APIKeys) == 0 {
		return fmt.Errorf("at least one admin API key must be configured")
	}

	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return fmt.Errorf("TAX_RATE must be in [0, 1)")
	}
	if c.Pricing.ShippingFee < 0 {
		return fmt.Errorf("SHIPPING_FEE must not be negative")
	}
	if c.Pricing.FreeShippingThreshold < 0 {
		return fmt.Errorf("FREE_SHIPPING_THRESHOLD must not be negative")
	}

	if len(c.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be a 3-letter ISO code, got %q", c.Currency)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
