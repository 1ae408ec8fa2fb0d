package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript performs the increment, window start and TTL read as one
// atomic operation on the Redis side. The key expires with its window, so
// idle counters clean themselves up.
var incrScript = redis.NewScript(`
    local count = redis.call('INCR', KEYS[1])
    if count == 1 then
        redis.call('PEXPIRE', KEYS[1], ARGV[1])
    end
    local ttl = redis.call('PTTL', KEYS[1])
    return { count, ttl }
`)

// RedisStore shares counters across instances through Redis.
type RedisStore struct{ rdb *redis.Client }

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Incr(ctx context.Context, key string, win time.Duration) (int64, time.Duration, error) {
	vals, err := incrScript.Run(ctx, s.rdb, []string{key}, win.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, redis.Nil
	}
	count, ttlMs := vals[0], vals[1]
	if ttlMs < 0 {
		ttlMs = 0
	}
	return count, time.Duration(ttlMs) * time.Millisecond, nil
}
