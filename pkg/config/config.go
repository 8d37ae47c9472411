package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Riksbank API settings
	RiksbankAPIURL      string
	RiksbankAPIKey      string
	RiksbankHTTPTimeout time.Duration

	// Requests per minute allowed on the refresh endpoint per client IP.
	RefreshRateLimit int64
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RIKSBANK_API_URL", "")
	viper.SetDefault("RIKSBANK_API_KEY", "")
	viper.SetDefault("RIKSBANK_HTTP_TIMEOUT", "10s")
	viper.SetDefault("REFRESH_RATE_LIMIT", 10)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.RiksbankAPIURL = viper.GetString("RIKSBANK_API_URL")
	cfg.RiksbankAPIKey = viper.GetString("RIKSBANK_API_KEY")
	if cfg.RiksbankAPIKey == "" {
		log.Println("Warning: RIKSBANK_API_KEY environment variable not set. Riksbank API calls will be unauthenticated.")
	}

	timeoutStr := viper.GetString("RIKSBANK_HTTP_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid value for RIKSBANK_HTTP_TIMEOUT (%q): %w", timeoutStr, err)
	}
	cfg.RiksbankHTTPTimeout = timeout

	cfg.RefreshRateLimit = viper.GetInt64("REFRESH_RATE_LIMIT")
	if cfg.RefreshRateLimit <= 0 {
		return nil, fmt.Errorf("REFRESH_RATE_LIMIT must be positive, got %d", cfg.RefreshRateLimit)
	}

	return cfg, nil
}
