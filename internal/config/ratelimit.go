package config

import "time"

// RateLimitConfig controls the fixed-window request limiter. Quotas are
// attached per route when registering handlers; this block carries the
// shared knobs.
type RateLimitConfig struct {
	Enabled      bool
	DefaultQuota int           // requests per window for routes without an explicit quota
	Window       time.Duration // counting window, one minute unless overridden
	Prefix       string        // counter key namespace
	Debug        bool          // expose the computed key in a response header
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:      envBool("RATE_LIMIT_ENABLED", true),
		DefaultQuota: envInt("RATE_LIMIT_PER_MINUTE", 60),
		Window:       envDur("RATE_LIMIT_WINDOW", time.Minute),
		Prefix:       envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:        envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.DefaultQuota < 1 {
		cfg.DefaultQuota = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
}
