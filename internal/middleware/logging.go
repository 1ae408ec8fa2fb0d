package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger assigns each request a unique identifier, attaches a
// request-scoped zerolog logger to the context, and records method, path,
// client, status and duration once the response is done. Logging never
// blocks or fails the request; the duration header is attached just before
// the first write so it also appears on error responses.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(requestIDHeader, reqID)
			c.Response().Before(func() {
				c.Response().Header().Set("X-Process-Time",
					time.Since(start).String())
			})

			l := logger.With().Str("request_id", reqID).Logger()
			c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))

			err := next(c)
			if err != nil {
				c.Error(err) // render now so the logged status is final
			}

			l.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("client", c.RealIP()).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
