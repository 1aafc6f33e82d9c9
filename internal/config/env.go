// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Core (Required)
	EnvLineChannelAccessToken = "EQUIP_LINE_CHANNEL_ACCESS_TOKEN"
	EnvLineChannelSecret      = "EQUIP_LINE_CHANNEL_SECRET"
	EnvDeveloperUserID        = "EQUIP_DEVELOPER_USER_ID"

	// Admins
	EnvAdminUserIDs = "EQUIP_ADMIN_USER_IDS"

	// Server
	EnvPort            = "EQUIP_PORT"
	EnvLogLevel        = "EQUIP_LOG_LEVEL"
	EnvShutdownTimeout = "EQUIP_SHUTDOWN_TIMEOUT"

	// Device backend
	EnvDeviceBackend  = "EQUIP_DEVICE_BACKEND"
	EnvDataDir        = "EQUIP_DATA_DIR"
	EnvPlatformAPIURL = "EQUIP_PLATFORM_API_URL"
	EnvPlatformID     = "EQUIP_PLATFORM_ID"
	EnvAPITimeout     = "EQUIP_API_TIMEOUT"

	// Webhook
	EnvWebhookTimeout = "EQUIP_WEBHOOK_TIMEOUT"

	// Rate Limits
	EnvGlobalRateRPS  = "EQUIP_GLOBAL_RATE_RPS"
	EnvUserRateBurst  = "EQUIP_USER_RATE_BURST"
	EnvUserRateRefill = "EQUIP_USER_RATE_REFILL"

	// Sentry Feature
	EnvSentryToken       = "EQUIP_SENTRY_TOKEN"
	EnvSentryHost        = "EQUIP_SENTRY_HOST"
	EnvSentryEnvironment = "EQUIP_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "EQUIP_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "EQUIP_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "EQUIP_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "EQUIP_METRICS_USERNAME"
	EnvMetricsPassword = "EQUIP_METRICS_PASSWORD"
)

// Device backend selection values.
const (
	BackendSQLite = "sqlite"
	BackendAPI    = "api"
)
