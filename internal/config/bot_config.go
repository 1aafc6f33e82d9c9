// Package config provides centralized configuration management for bot behavior.
package config

import (
	"fmt"
	"time"
)

// BotConfig centralizes webhook and rate limiting configuration.
type BotConfig struct {
	// Webhook configuration
	WebhookTimeout      time.Duration
	MaxEventsPerWebhook int
	MinReplyTokenLength int
	MaxMessageLength    int

	// Rate limiting configuration
	UserRateLimitTokens     float64
	UserRateLimitRefillRate float64
	GlobalRateLimitRPS      float64
}

// DefaultBotConfig returns default configuration values.
// LINE API limits: https://developers.line.biz/en/reference/messaging-api/#rate-limits
func DefaultBotConfig() *BotConfig {
	return &BotConfig{
		// Webhook (from LINE API constraints)
		WebhookTimeout:      WebhookProcessing,
		MaxEventsPerWebhook: 100,   // LINE API limit
		MinReplyTokenLength: 10,
		MaxMessageLength:    20000, // LINE API limit

		// Rate limiting (based on LINE API limits)
		UserRateLimitTokens:     6.0,  // 6 tokens per user
		UserRateLimitRefillRate: 0.2,  // 1 token per 5 seconds
		GlobalRateLimitRPS:      80.0, // 80 RPS (LINE API: 100 RPS, we use 80 for safety)
	}
}

// Validate checks if the configuration is valid.
// Returns error describing validation failures.
func (c *BotConfig) Validate() error {
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("webhook timeout must be positive, got %v", c.WebhookTimeout)
	}

	if c.MaxEventsPerWebhook < 1 {
		return fmt.Errorf("max events per webhook must be positive, got %d", c.MaxEventsPerWebhook)
	}

	if c.MinReplyTokenLength < 1 {
		return fmt.Errorf("min reply token length must be positive, got %d", c.MinReplyTokenLength)
	}

	if c.MaxMessageLength < 1 {
		return fmt.Errorf("max message length must be positive, got %d", c.MaxMessageLength)
	}

	if c.UserRateLimitTokens <= 0 {
		return fmt.Errorf("user rate limit tokens must be positive, got %f", c.UserRateLimitTokens)
	}

	if c.UserRateLimitRefillRate <= 0 {
		return fmt.Errorf("user rate limit refill rate must be positive, got %f", c.UserRateLimitRefillRate)
	}

	if c.GlobalRateLimitRPS <= 0 {
		return fmt.Errorf("global rate limit RPS must be positive, got %f", c.GlobalRateLimitRPS)
	}

	return nil
}
