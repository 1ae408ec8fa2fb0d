package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/config"
	"github.com/haikudo/backend/internal/limiter"
)

// RateLimit enforces a per-route request quota keyed by client IP. Each
// registered route passes its own quota; the window and namespace come
// from the shared config. Denials short-circuit before any handler logic
// with a 429 and a machine-readable retry hint. A failing counter store
// fails open: the request proceeds and the error is logged.
func RateLimit(cfg config.RateLimitConfig, l *limiter.Limiter, quota int) echo.MiddlewareFunc {
	if !cfg.Enabled || l == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	if quota <= 0 {
		quota = cfg.DefaultQuota
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			client := c.RealIP()
			if client == "" {
				client = "unknown"
			}
			route := c.Request().Method + " " + c.Path()

			res, err := l.Check(c.Request().Context(), client, route, quota, cfg.Window)
			if err != nil {
				zerolog.Ctx(c.Request().Context()).Warn().
					Err(err).Str("route", route).Msg("rate limit store unavailable, failing open")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(quota))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", l.Key(client, route))
			}

			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				if secs < 0 {
					secs = 0
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "rate_limit_exceeded",
					"detail":      fmt.Sprintf("Rate limit exceeded: %d per %s", quota, cfg.Window),
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}
