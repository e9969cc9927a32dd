package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinConfirmCooldown is the shortest accepted double-submit window
const MinConfirmCooldown = 100 * time.Millisecond

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Catalog  CatalogConfig
	Storage  StorageConfig
	Checkout CheckoutConfig
	Pricing  PricingConfig
	// ConfirmCooldownMS is the window in which a repeated confirm is rejected
	ConfirmCooldownMS int
	LogLevel          string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type BackendConfig struct {
	URL       string
	TimeoutMS int
}

type CatalogConfig struct {
	DishSources    []string
	MenuSources    []string
	TimeoutSeconds int
}

type StorageConfig struct {
	Driver string // sqlite or memory
	Path   string
}

type CheckoutConfig struct {
	PaymentReturnURL string
	HomeURL          string
	SuccessDelayMS   int
}

type PricingConfig struct {
	DayPrices       map[int]int // calorie tier -> price per delivery day
	DefaultDayPrice int
}

// DayPrice returns the per-day price of a tier
func (p PricingConfig) DayPrice(tier int) int {
	if price, ok := p.DayPrices[tier]; ok {
		return price
	}
	return p.DefaultDayPrice
}

const defaultDayPrices = "900:380,1200:420,1600:460,1800:490,2500:540,3000:590,3500:640"

// Load reads configuration from environment variables. Outside production a
// .env file in the working directory is read first; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	dayPrices, err := parseDayPrices(getEnv("STANDARD_DAY_PRICES", defaultDayPrices))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "127.0.0.1"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Backend: BackendConfig{
			URL:       getEnv("BACKEND_URL", "http://localhost:3000"),
			TimeoutMS: getEnvAsInt("BACKEND_TIMEOUT_MS", 5000),
		},
		Catalog: CatalogConfig{
			DishSources:    getEnvAsSlice("DISHES_SOURCES", []string{"data/datafiles/dishes.json", "../data/datafiles/dishes.json"}),
			MenuSources:    getEnvAsSlice("MENU_SOURCES", []string{"data/datafiles/menu.json", "../data/datafiles/menu.json"}),
			TimeoutSeconds: getEnvAsInt("CATALOG_TIMEOUT_SECONDS", 30),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
			Path:   getEnv("STORAGE_PATH", "data/storefront.db"),
		},
		Checkout: CheckoutConfig{
			PaymentReturnURL: getEnv("PAYMENT_RETURN_URL", "http://localhost:8080/cart"),
			HomeURL:          getEnv("HOME_URL", "/"),
			SuccessDelayMS:   getEnvAsInt("CHECKOUT_SUCCESS_DELAY_MS", 1500),
		},
		Pricing: PricingConfig{
			DayPrices:       dayPrices,
			DefaultDayPrice: getEnvAsInt("DEFAULT_DAY_PRICE", 450),
		},
		ConfirmCooldownMS: getEnvAsInt("CONFIRM_COOLDOWN_MS", 500),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
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

	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.Backend.TimeoutMS <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT_MS must be positive")
	}

	if len(c.Catalog.DishSources) == 0 || len(c.Catalog.MenuSources) == 0 {
		return fmt.Errorf("at least one dish source and one menu source must be configured")
	}

	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s (must be sqlite or memory)", c.Storage.Driver)
	}

	if c.Checkout.SuccessDelayMS < 0 {
		return fmt.Errorf("CHECKOUT_SUCCESS_DELAY_MS must not be negative")
	}

	if c.Pricing.DefaultDayPrice < 0 {
		return fmt.Errorf("DEFAULT_DAY_PRICE must not be negative")
	}

	if c.ConfirmCooldown() < MinConfirmCooldown {
		return fmt.Errorf("CONFIRM_COOLDOWN_MS must be at least %d", MinConfirmCooldown.Milliseconds())
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutMS) * time.Millisecond
}

func (c *Config) ConfirmCooldown() time.Duration {
	return time.Duration(c.ConfirmCooldownMS) * time.Millisecond
}

func (c *Config) SuccessDelay() time.Duration {
	return time.Duration(c.Checkout.SuccessDelayMS) * time.Millisecond
}

// parseDayPrices reads "tier:price,tier:price"
func parseDayPrices(s string) (map[int]int, error) {
	prices := make(map[int]int)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		tierStr, priceStr, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("STANDARD_DAY_PRICES entry %q must be tier:price", pair)
		}
		tier, err := strconv.Atoi(strings.TrimSpace(tierStr))
		if err != nil {
			return nil, fmt.Errorf("STANDARD_DAY_PRICES tier %q is not a number", tierStr)
		}
		price, err := strconv.Atoi(strings.TrimSpace(priceStr))
		if err != nil || price < 0 {
			return nil, fmt.Errorf("STANDARD_DAY_PRICES price %q is not a valid amount", priceStr)
		}
		prices[tier] = price
	}
	return prices, nil
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
