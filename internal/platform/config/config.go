// Package config builds process configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures gateway-level configuration.
type Config struct {
	Addr      string
	APIPrefix string

	// AdminToken guards operator endpoints; empty disables them.
	AdminToken string
	// TokenSigningKey signs merchant bearer tokens (HS256).
	TokenSigningKey string

	// StrictAmounts rejects mapped amounts that cannot be coerced to a
	// number instead of passing them through.
	StrictAmounts bool

	RateLimit RateLimitConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig
}

// RateLimitConfig controls per-merchant admission limits.
type RateLimitConfig struct {
	Limit    int
	Window   time.Duration
	Disabled bool
}

// RedisConfig controls the optional Redis-backed rate limit store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig controls the optional PostgreSQL merchant store.
type PostgresConfig struct {
	URL string
}

// KafkaConfig controls the optional Kafka audit sink.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Config from environment variables, applying development
// defaults where unset.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("GATEWAY_ADDR", ":8080"),
		APIPrefix:       strings.Trim(envOr("GATEWAY_API_PREFIX", "api"), "/"),
		AdminToken:      os.Getenv("GATEWAY_ADMIN_TOKEN"),
		TokenSigningKey: envOr("GATEWAY_TOKEN_SIGNING_KEY", "dev-secret-key-change-in-production"),
		StrictAmounts:   os.Getenv("GATEWAY_STRICT_AMOUNTS") == "true",
		RateLimit: RateLimitConfig{
			Limit:    envIntOr("GATEWAY_RATE_LIMIT", 100),
			Window:   envDurationOr("GATEWAY_RATE_WINDOW", time.Minute),
			Disabled: os.Getenv("GATEWAY_RATE_LIMIT_DISABLED") == "true",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "chargeback.audit"),
		},
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
