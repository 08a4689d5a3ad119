// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, matching thresholds, sessions and optional features.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultFallbackMessage is the reply used when no catalog entry reaches
// the match threshold.
const DefaultFallbackMessage = "Desculpe, não entendi sua pergunta. Pode reformular?"

// Config holds all application configuration
type Config struct {
	// Admin
	AdminPassword string // Password for the admin CRUD API (required)

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir string // Data directory for SQLite database

	// Matching Configuration
	MatchPolicy      string // "first_match" (default) or "best_match"
	MatchThreshold   int    // Minimum token-set ratio for a question match (default: 70)
	KeywordThreshold int    // Minimum token-set ratio for a keyword match (default: 50)
	FallbackMessage  string // Reply when nothing matches
	MaxSuggestions   int    // "Did you mean" suggestions on no-match (0 = disabled)

	// Session Configuration
	SessionTTL           time.Duration // Idle conversations older than this are dropped
	SessionSweepInterval time.Duration // How often the sweep runs

	// Chat Rate Limits (Token Bucket Algorithm)
	ChatRateBurst        float64 // Maximum burst tokens per session (default: 6)
	ChatRateRefillPerSec float64 // Tokens refilled per second (default: 0.5)

	// Backup Feature (optional, S3-compatible object storage)
	BackupEnabled     bool
	BackupInterval    time.Duration
	BackupKey         string // Object key for the snapshot (e.g., "snapshots/faq.db.zst")
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string

	// Sentry Feature (optional)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	SentryRelease     string
	SentrySampleRate  float64

	// Better Stack Feature (optional)
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		AdminPassword: getEnv(EnvAdminPassword, ""),

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),

		DataDir: getEnv(EnvDataDir, getDefaultDataDir()),

		MatchPolicy:      getEnv(EnvMatchPolicy, "first_match"),
		MatchThreshold:   getIntEnv(EnvMatchThreshold, 70),
		KeywordThreshold: getIntEnv(EnvKeywordThreshold, 50),
		FallbackMessage:  getEnv(EnvFallbackMessage, DefaultFallbackMessage),
		MaxSuggestions:   getIntEnv(EnvMaxSuggestions, 3),

		SessionTTL:           getDurationEnv(EnvSessionTTL, time.Hour),
		SessionSweepInterval: getDurationEnv(EnvSessionSweepInterval, 10*time.Minute),

		ChatRateBurst:        getFloatEnv(EnvChatRateBurst, 6.0),
		ChatRateRefillPerSec: getFloatEnv(EnvChatRateRefill, 0.5), // 1 per 2s

		BackupEnabled:     getBoolEnv(EnvBackupEnabled, false),
		BackupInterval:    getDurationEnv(EnvBackupInterval, 6*time.Hour),
		BackupKey:         getEnv(EnvBackupKey, "snapshots/faq.db.zst"),
		S3Endpoint:        getEnv(EnvS3Endpoint, ""),
		S3AccessKeyID:     getEnv(EnvS3AccessKeyID, ""),
		S3SecretAccessKey: getEnv(EnvS3SecretAccessKey, ""),
		S3Bucket:          getEnv(EnvS3Bucket, ""),

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, "errors.betterstack.com"),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:     getEnv(EnvSentryRelease, ""),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.AdminPassword == "" {
		errs = append(errs, errors.New(EnvAdminPassword+" is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.MatchPolicy != "first_match" && c.MatchPolicy != "best_match" {
		errs = append(errs, fmt.Errorf("%s must be first_match or best_match, got %q", EnvMatchPolicy, c.MatchPolicy))
	}
	if c.MatchThreshold < 1 || c.MatchThreshold > 100 {
		errs = append(errs, fmt.Errorf("%s must be in 1..100, got %d", EnvMatchThreshold, c.MatchThreshold))
	}
	if c.KeywordThreshold < 1 || c.KeywordThreshold > 100 {
		errs = append(errs, fmt.Errorf("%s must be in 1..100, got %d", EnvKeywordThreshold, c.KeywordThreshold))
	}
	if c.MaxSuggestions < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvMaxSuggestions, c.MaxSuggestions))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSessionTTL, c.SessionTTL))
	}
	if c.ChatRateBurst <= 0 || c.ChatRateRefillPerSec <= 0 {
		errs = append(errs, errors.New("chat rate limit burst and refill must be positive"))
	}
	if c.BackupEnabled {
		if c.S3Endpoint == "" || c.S3AccessKeyID == "" || c.S3SecretAccessKey == "" || c.S3Bucket == "" {
			errs = append(errs, errors.New("backup enabled but S3 endpoint, credentials or bucket missing"))
		}
		if c.BackupInterval <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvBackupInterval, c.BackupInterval))
		}
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

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
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

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
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
	return filepath.Join(c.DataDir, "faq.db")
}

// BackupConfigured returns true if the backup feature is enabled and
// fully configured.
func (c *Config) BackupConfigured() bool {
	return c.BackupEnabled && c.S3Endpoint != "" && c.S3Bucket != ""
}
