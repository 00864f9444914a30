package config

import "time"

// RateLimitConfig configures the token bucket applied to /reservas. It is
// off unless RATE_LIMIT_ENABLED is set.
type RateLimitConfig struct {
	Enabled        bool          `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"60"`
	RefillTokens   int           `env:"RATE_LIMIT_REFILL_TOKENS" envDefault:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1s"`
	TTL            time.Duration `env:"RATE_LIMIT_TTL" envDefault:"10m"`
	KeyStrategy    string        `env:"RATE_LIMIT_KEY_STRATEGY" envDefault:"ip_route"` // ip | ip_route
	Prefix         string        `env:"RATE_LIMIT_PREFIX" envDefault:"rl"`

	// Shorthands; when set they override Capacity and the refill pair.
	Burst       int           `env:"RATE_LIMIT_BURST"`
	RefillEvery time.Duration `env:"RATE_LIMIT_REFILL_EVERY"`
}

func (c *RateLimitConfig) normalize() {
	if c.Burst > 0 {
		c.Capacity = c.Burst
	}
	if c.RefillEvery > 0 {
		c.RefillTokens = 1
		c.RefillInterval = c.RefillEvery
	}
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	if c.KeyStrategy != "ip" {
		c.KeyStrategy = "ip_route"
	}
}

// TokensPerSecond is the steady refill rate of the bucket.
func (c RateLimitConfig) TokensPerSecond() float64 {
	return float64(c.RefillTokens) / c.RefillInterval.Seconds()
}
