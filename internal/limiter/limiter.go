// Package limiter implements fixed-window request counting. Counters live
// in a pluggable Store so a shared Redis deployment and a single-process
// in-memory fallback behave identically to callers.
package limiter

import (
	"context"
	"time"
)

// Store is a counter backend. Incr must be a single atomic step: it bumps
// the counter for key, starting a fresh window when none is active, and
// reports the new count together with the time left in the window. A
// check-then-increment gap across concurrent callers is not acceptable.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, left time.Duration, err error)
}

// Result is the outcome of a quota check.
type Result struct {
	Allowed    bool
	Remaining  int64         // requests left in the current window
	RetryAfter time.Duration // time until the window resets, set when denied
}

type Limiter struct {
	store  Store
	prefix string
}

func New(store Store, prefix string) *Limiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &Limiter{store: store, prefix: prefix}
}

// Key builds the counter key for a client/route pair.
func (l *Limiter) Key(clientKey, routeKey string) string {
	return l.prefix + ":" + routeKey + ":" + clientKey
}

// Check counts the request against its (client, route) window and decides
// whether it fits the quota. The counter is incremented even for denied
// requests; with an atomic store the number of allowed requests per window
// never exceeds quota regardless of concurrency. A store error is returned
// alongside an allowing Result so callers can fail open.
func (l *Limiter) Check(ctx context.Context, clientKey, routeKey string, quota int, window time.Duration) (Result, error) {
	count, left, err := l.store.Incr(ctx, l.Key(clientKey, routeKey), window)
	if err != nil {
		return Result{Allowed: true, Remaining: int64(quota)}, err
	}
	if count > int64(quota) {
		if left < 0 {
			left = 0
		}
		return Result{Allowed: false, Remaining: 0, RetryAfter: left}, nil
	}
	return Result{Allowed: true, Remaining: int64(quota) - count}, nil
}
