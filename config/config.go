package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Ozon seller API credentials
	ClientID    string
	SellerToken string

	// Endpoints
	BaseURL string
	FeedURL string

	// Stock feed
	FeedFile string // spreadsheet name expected inside the archive
	WorkDir  string // where the archive is extracted

	// Upload batching
	StockBatchSize int
	PriceBatchSize int

	// Rate limiting
	RatePerSecond float64
	RateBurst     int

	// HTTP server (MCP over HTTP)
	HTTPPort string
	APIKey   string

	// Logging
	LogLevel string // "debug", "info", "warn", "error"
}

// DefaultConfig returns configuration with sensible defaults.
// Credentials have no defaults and must come from the environment.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api-seller.ozon.ru",
		FeedURL:        "https://timeworld.ru/upload/files/ostatki.zip",
		FeedFile:       "ostatki.xlsx",
		WorkDir:        ".",
		StockBatchSize: 100,
		PriceBatchSize: 900,
		RatePerSecond:  5.0,
		RateBurst:      5,
		HTTPPort:       "8080",
		LogLevel:       "info",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("SELLER_TOKEN"); v != "" {
		c.SellerToken = v
	}
	if v := os.Getenv("OZON_SYNC_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("OZON_SYNC_FEED_URL"); v != "" {
		c.FeedURL = v
	}
	if v := os.Getenv("OZON_SYNC_FEED_FILE"); v != "" {
		c.FeedFile = v
	}
	if v := os.Getenv("OZON_SYNC_WORK_DIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("OZON_SYNC_STOCK_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.StockBatchSize = n
		}
	}
	if v := os.Getenv("OZON_SYNC_PRICE_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PriceBatchSize = n
		}
	}
	if v := os.Getenv("OZON_SYNC_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("OZON_SYNC_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("OZON_SYNC_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("OZON_SYNC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that required credentials are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("CLIENT_ID is required")
	}
	if c.SellerToken == "" {
		return errors.New("SELLER_TOKEN is required")
	}
	return nil
}
