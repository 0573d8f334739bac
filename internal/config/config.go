package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DeliveryMode selects how the delivery fee is derived
type DeliveryMode string

const (
	// DeliveryModeFixed charges a flat amount regardless of cart value
	DeliveryModeFixed DeliveryMode = "fixed"
	// DeliveryModePercent charges a percentage of the cart's base price
	DeliveryModePercent DeliveryMode = "percent"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Database    DatabaseConfig
	Redis       RedisConfig
	Email       EmailConfig
	Pricing     PricingConfig
	AdminAPIKey string // ADMIN_API_KEY: grants access to /v1/admin routes
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig is used for the durable session cart store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EmailConfig is used to dispatch order notifications to the email service.
// An empty BaseURL disables dispatch (logged as a warning at startup).
type EmailConfig struct {
	BaseURL string // e.g. https://api.resend.com
	APIKey  string
	From    string
	To      string
}

// PricingConfig holds the commission and delivery constants, resolved once
// at startup and never re-derived per calculation.
type PricingConfig struct {
	CommissionPercent decimal.Decimal // expert commission, % of base price
	DeliveryMode      DeliveryMode
	DeliveryAmount    decimal.Decimal // flat fee, used when mode is fixed
	DeliveryPercent   decimal.Decimal // % of base price, used when mode is percent
	MaxAge            time.Duration   // breakdowns older than this are recomputed
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("COMMISSION_PERCENT", "15")
	viper.SetDefault("DELIVERY_MODE", string(DeliveryModePercent))
	viper.SetDefault("DELIVERY_PERCENT", "25")
	viper.SetDefault("DELIVERY_AMOUNT", "0")
	viper.SetDefault("PRICING_MAX_AGE", "24h")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	pricing, err := loadPricing()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "pickmy"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Email: EmailConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("EMAIL_BASE_URL", "")),
			APIKey:  strings.TrimSpace(getEnvOrViper("EMAIL_API_KEY", "")),
			From:    getEnvOrViper("EMAIL_FROM", "info@pickmy.ru"),
			To:      getEnvOrViper("EMAIL_TO", ""),
		},
		Pricing:     pricing,
		AdminAPIKey: strings.TrimSpace(getEnvOrViper("ADMIN_API_KEY", "")),
	}

	return cfg, nil
}

func loadPricing() (PricingConfig, error) {
	commission, err := decimal.NewFromString(getEnvOrViper("COMMISSION_PERCENT", "15"))
	if err != nil {
		return PricingConfig{}, fmt.Errorf("invalid COMMISSION_PERCENT: %w", err)
	}
	if commission.IsNegative() {
		return PricingConfig{}, fmt.Errorf("COMMISSION_PERCENT must not be negative")
	}

	mode := DeliveryMode(strings.ToLower(getEnvOrViper("DELIVERY_MODE", string(DeliveryModePercent))))
	if mode != DeliveryModeFixed && mode != DeliveryModePercent {
		return PricingConfig{}, fmt.Errorf("DELIVERY_MODE must be %q or %q", DeliveryModeFixed, DeliveryModePercent)
	}

	deliveryAmount, err := decimal.NewFromString(getEnvOrViper("DELIVERY_AMOUNT", "0"))
	if err != nil {
		return PricingConfig{}, fmt.Errorf("invalid DELIVERY_AMOUNT: %w", err)
	}
	deliveryPercent, err := decimal.NewFromString(getEnvOrViper("DELIVERY_PERCENT", "25"))
	if err != nil {
		return PricingConfig{}, fmt.Errorf("invalid DELIVERY_PERCENT: %w", err)
	}
	if deliveryAmount.IsNegative() || deliveryPercent.IsNegative() {
		return PricingConfig{}, fmt.Errorf("delivery fee settings must not be negative")
	}

	maxAge, err := time.ParseDuration(getEnvOrViper("PRICING_MAX_AGE", "24h"))
	if err != nil {
		return PricingConfig{}, fmt.Errorf("invalid PRICING_MAX_AGE: %w", err)
	}
	if maxAge <= 0 {
		return PricingConfig{}, fmt.Errorf("PRICING_MAX_AGE must be positive")
	}

	return PricingConfig{
		CommissionPercent: commission,
		DeliveryMode:      mode,
		DeliveryAmount:    deliveryAmount,
		DeliveryPercent:   deliveryPercent,
		MaxAge:            maxAge,
	}, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
