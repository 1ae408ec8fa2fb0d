package config

// Redis backs the distributed rate-limit counters, the response cache and
// the admin stats endpoint. If the server cannot be reached at startup the
// constructor returns nil and callers degrade gracefully: the limiter falls
// back to its in-process store and caching is disabled.

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client from environment variables.
// REDIS_URL takes precedence (redis://[:pass@]host:port/db); otherwise
// REDIS_HOST, REDIS_PORT, REDIS_PASSWORD and REDIS_DB are consulted with
// localhost defaults. The returned client is nil if the initial ping fails.
func NewRedisClient() *redis.Client {
	var opts *redis.Options
	if url := os.Getenv("REDIS_URL"); url != "" {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil
		}
		opts = parsed
	} else {
		addr := envStr("REDIS_HOST", "localhost") + ":" + envStr("REDIS_PORT", "6379")
		dbNum := 0
		if s := os.Getenv("REDIS_DB"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				dbNum = n
			}
		}
		opts = &redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       dbNum,
		}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
