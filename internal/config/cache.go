package config

import "time"

// CacheConfig defines settings for the GET response cache that fronts the
// public post endpoints. When Enabled is false or no Redis client is
// available, caching is disabled entirely.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration // lifetime of cache entries
	Prefix       string        // cache key namespace
	MaxBodyBytes int           // responses larger than this are not cached
}

func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}
