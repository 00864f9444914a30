// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values for the server, the audit
// consumer and the terminal client.
type Config struct {
	Env              string        `env:"APP_ENV" envDefault:"dev"`
	Port             string        `env:"APP_PORT" envDefault:"3001"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MetricsEnabled   bool          `env:"METRICS_ENABLED" envDefault:"true"`

	AMQPURL      string `env:"AMQP_URL"` // empty disables event publishing
	EventsQueue  string `env:"EVENTS_QUEUE" envDefault:"reservas.events"`
	AuditLogPath string `env:"AUDIT_LOG_PATH" envDefault:"logs/reservas.log"`

	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// CacheConfig controls the GET /reservas response cache. Caching is skipped
// when Enabled is false or no Redis client is available.
type CacheConfig struct {
	Enabled      bool          `env:"CACHE_ENABLED" envDefault:"true"`
	TTL          time.Duration `env:"CACHE_TTL" envDefault:"30s"`
	Prefix       string        `env:"CACHE_PREFIX" envDefault:"cache"`
	MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES" envDefault:"1048576"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional, mainly for local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Port = strings.TrimPrefix(strings.TrimSpace(cfg.Port), ":")
	if cfg.Port == "" {
		return nil, fmt.Errorf("APP_PORT must not be empty")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 30 * time.Second
	}
	cfg.RateLimit.normalize()
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }
