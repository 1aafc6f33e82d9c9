// Package config provides centralized timeout constants for the application.
//
// These values are tuned around:
//   - LINE Messaging API constraints (reply token expiration, webhook timeouts)
//   - Platform API response times for the remote device backend
//   - SQLite performance characteristics (WAL mode, busy timeout)
package config

import "time"

// Webhook timeouts
const (
	// WebhookProcessing is the timeout for processing a single webhook batch.
	// This includes command parsing, device backend calls, and reply delivery.
	// All events of a batch must settle before the webhook is acknowledged,
	// so the budget covers the slowest event, not the sum.
	WebhookProcessing = 25 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout for webhook requests.
	// Should be short since LINE sends small JSON payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	// Should accommodate WebhookProcessing + response serialization.
	WebhookHTTPWrite = 30 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Platform API timeouts
const (
	// PlatformAPIRequest is the timeout for a single HTTP request to the
	// platform device API, including the per-event sign-in call.
	PlatformAPIRequest = 15 * time.Second
)

// Database timeouts
const (
	// DatabaseBusyTimeout is SQLite busy_timeout pragma value.
	// Handles concurrent write contention from parallel webhook events.
	DatabaseBusyTimeout = 30 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of database connections.
	// Prevents stale connections and allows connection pool refresh.
	DatabaseConnMaxLifetime = time.Hour
)

// Background job intervals
const (
	// RateLimiterCleanupInterval is how often inactive user rate limiters are cleaned.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight requests to complete before forceful termination.
	GracefulShutdown = 30 * time.Second
)
