// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Core (Required)
	EnvAdminPassword = "RUSSEL_ADMIN_PASSWORD"

	// Server
	EnvPort            = "RUSSEL_PORT"
	EnvLogLevel        = "RUSSEL_LOG_LEVEL"
	EnvShutdownTimeout = "RUSSEL_SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir = "RUSSEL_DATA_DIR"

	// Matching
	EnvMatchPolicy      = "RUSSEL_MATCH_POLICY"
	EnvMatchThreshold   = "RUSSEL_MATCH_THRESHOLD"
	EnvKeywordThreshold = "RUSSEL_KEYWORD_THRESHOLD"
	EnvFallbackMessage  = "RUSSEL_FALLBACK_MESSAGE"
	EnvMaxSuggestions   = "RUSSEL_MAX_SUGGESTIONS"

	// Sessions
	EnvSessionTTL           = "RUSSEL_SESSION_TTL"
	EnvSessionSweepInterval = "RUSSEL_SESSION_SWEEP_INTERVAL"

	// Rate Limits
	EnvChatRateBurst  = "RUSSEL_CHAT_RATE_BURST"
	EnvChatRateRefill = "RUSSEL_CHAT_RATE_REFILL"

	// Backup Feature
	EnvBackupEnabled     = "RUSSEL_BACKUP_ENABLED"
	EnvBackupInterval    = "RUSSEL_BACKUP_INTERVAL"
	EnvBackupKey         = "RUSSEL_BACKUP_KEY"
	EnvS3Endpoint        = "RUSSEL_S3_ENDPOINT"
	EnvS3AccessKeyID     = "RUSSEL_S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey = "RUSSEL_S3_SECRET_ACCESS_KEY"
	EnvS3Bucket          = "RUSSEL_S3_BUCKET"

	// Sentry Feature
	EnvSentryToken       = "RUSSEL_SENTRY_TOKEN"
	EnvSentryHost        = "RUSSEL_SENTRY_HOST"
	EnvSentryEnvironment = "RUSSEL_SENTRY_ENVIRONMENT"
	EnvSentryRelease     = "RUSSEL_SENTRY_RELEASE"
	EnvSentrySampleRate  = "RUSSEL_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "RUSSEL_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "RUSSEL_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "RUSSEL_METRICS_USERNAME"
	EnvMetricsPassword = "RUSSEL_METRICS_PASSWORD"
)
