package config

import (
	"fmt"
	"time"

	"github.com/RishiKendai/hermes/internal/configs/env"
)

// Config holds all configuration for the application
type Config struct {
	// Upstream collection API
	UpstreamBaseURL  string
	UpstreamTenantID string
	UpstreamToken    string
	PageSize         int

	// Redis
	RedisHost             string
	RedisPassword         string
	InviteStreamKey       string
	InviteConsumerGroup   string
	InviteDeadLetterKey   string
	InviteMaxRetries      int
	SnapshotTTL           time.Duration
	DispatchStatusTTL     time.Duration

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Logging
	LogLevel string

	// Server
	ServerPort  string
	MetricsPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Upstream
	cfg.UpstreamBaseURL = env.GetEnv("UPSTREAM_BASE_URL", "")
	cfg.UpstreamTenantID = env.GetEnv("UPSTREAM_TENANT_ID", "")
	cfg.UpstreamToken = env.GetEnv("UPSTREAM_TOKEN", "")
	cfg.PageSize = env.GetEnvInt("UPSTREAM_PAGE_SIZE", 100)

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.InviteStreamKey = env.GetEnv("INVITE_STREAM_KEY", "invites:stream")
	cfg.InviteConsumerGroup = env.GetEnv("INVITE_CONSUMER_GROUP", "invites:group")
	cfg.InviteDeadLetterKey = env.GetEnv("INVITE_DEAD_LETTER_KEY", "invites:dlq")
	cfg.InviteMaxRetries = env.GetEnvInt("INVITE_MAX_RETRIES", 3)
	cfg.SnapshotTTL = env.GetEnvDuration("SNAPSHOT_TTL", 5*time.Minute)
	cfg.DispatchStatusTTL = env.GetEnvDuration("DISPATCH_STATUS_TTL", 12*time.Hour)

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "hermes")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")
	cfg.MetricsPort = env.GetEnv("METRICS_PORT", "2112")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.UpstreamBaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if c.UpstreamTenantID == "" {
		return fmt.Errorf("UPSTREAM_TENANT_ID is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("UPSTREAM_PAGE_SIZE must be greater than 0")
	}
	if c.InviteMaxRetries < 0 {
		return fmt.Errorf("INVITE_MAX_RETRIES must not be negative")
	}
	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be greater than 0")
	}
	return nil
}
