// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, device backend selection, timeouts, and rate limits.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string

	// Permission Configuration
	DeveloperUserID string   // LINE user ID of the developer (never removable from admins)
	AdminUserIDs    []string // Initial admin LINE user IDs (comma-separated in env)

	// Device Backend Configuration
	DeviceBackend  string        // "sqlite" or "api"
	DataDir        string        // Data directory for SQLite database
	PlatformAPIURL string        // Base URL of the platform API (api backend)
	PlatformID     string        // Platform identifier sent on sign-in (api backend)
	APITimeout     time.Duration // HTTP client timeout for the platform API

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Error Reporting
	SentryToken       string  // Better Stack Errors token (empty = disabled)
	SentryHost        string  // Better Stack Errors ingesting host
	SentryEnvironment string  // Deployment environment label
	SentrySampleRate  float64 // Error sampling rate (0.0-1.0)

	// Log Shipping
	BetterStackToken    string // Better Stack Logs token (empty = disabled)
	BetterStackEndpoint string // Better Stack Logs ingesting endpoint override

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Bot Configuration (embedded)
	Bot BotConfig
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// LINE Bot Configuration
		LineChannelToken:  getEnv(EnvLineChannelAccessToken, ""),
		LineChannelSecret: getEnv(EnvLineChannelSecret, ""),

		// Permission Configuration
		DeveloperUserID: getEnv(EnvDeveloperUserID, ""),
		AdminUserIDs:    splitList(getEnv(EnvAdminUserIDs, "")),

		// Device Backend Configuration
		DeviceBackend:  getEnv(EnvDeviceBackend, BackendSQLite),
		DataDir:        getEnv(EnvDataDir, getDefaultDataDir()),
		PlatformAPIURL: getEnv(EnvPlatformAPIURL, ""),
		PlatformID:     getEnv(EnvPlatformID, ""),
		APITimeout:     getDurationEnv(EnvAPITimeout, PlatformAPIRequest),

		// Metrics Authentication
		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		// Error Reporting
		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, "errors.betterstack.com"),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		// Log Shipping
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		// Server Configuration
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		// Bot Configuration
		Bot: BotConfig{
			WebhookTimeout:          getDurationEnv(EnvWebhookTimeout, WebhookProcessing),
			MaxEventsPerWebhook:     100,
			MinReplyTokenLength:     10,
			MaxMessageLength:        20000,
			UserRateLimitTokens:     getFloatEnv(EnvUserRateBurst, 6.0),
			UserRateLimitRefillRate: getFloatEnv(EnvUserRateRefill, 0.2), // 1 token per 5 seconds
			GlobalRateLimitRPS:      getFloatEnv(EnvGlobalRateRPS, 80.0),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.LineChannelToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvLineChannelAccessToken))
	}
	if c.LineChannelSecret == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvLineChannelSecret))
	}
	if c.DeveloperUserID == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvDeveloperUserID))
	}
	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}

	switch c.DeviceBackend {
	case BackendSQLite:
		if c.DataDir == "" {
			errs = append(errs, fmt.Errorf("%s is required for the sqlite backend", EnvDataDir))
		}
	case BackendAPI:
		if c.PlatformAPIURL == "" {
			errs = append(errs, fmt.Errorf("%s is required for the api backend", EnvPlatformAPIURL))
		}
		if c.PlatformID == "" {
			errs = append(errs, fmt.Errorf("%s is required for the api backend", EnvPlatformID))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q",
			EnvDeviceBackend, BackendSQLite, BackendAPI, c.DeviceBackend))
	}

	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvAPITimeout, c.APITimeout))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be in [0,1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}
	if err := c.Bot.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("bot config: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// splitList splits a comma-separated value into trimmed non-empty entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "devices.db")
}

// UseSQLite returns true if the sqlite device backend is selected.
func (c *Config) UseSQLite() bool {
	return c.DeviceBackend == BackendSQLite
}
