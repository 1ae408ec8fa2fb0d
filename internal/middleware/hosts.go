package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedHost rejects requests whose Host header is not in the allow list.
// Debug mode disables the check so local tooling can hit the server under
// any name. Fails closed with a 400.
func TrustedHost(hosts []string, debug bool) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		allowed[canonicalHost(h)] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if debug {
				return next(c)
			}
			if !allowed[canonicalHost(c.Request().Host)] {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error":  "untrusted_host",
					"detail": "Untrusted host",
				})
			}
			return next(c)
		}
	}
}

// canonicalHost lowercases a Host header or allow-list entry and strips any
// port and IPv6 brackets, so "[::1]:8000", "[::1]" and "::1" all compare
// equal.
func canonicalHost(s string) string {
	s = strings.ToLower(s)
	if h, _, err := net.SplitHostPort(s); err == nil {
		s = h
	}
	return strings.Trim(s, "[]")
}
