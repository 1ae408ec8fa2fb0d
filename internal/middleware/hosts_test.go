package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/haikudo/backend/internal/middleware"
)

func newHostApp(hosts []string, debug bool) *echo.Echo {
	e := echo.New()
	e.Use(middleware.TrustedHost(hosts, debug))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e
}

func getHost(e *echo.Echo, host string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = host
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTrustedHost(t *testing.T) {
	e := newHostApp([]string{"api.example.com", "localhost"}, false)

	cases := []struct {
		host string
		want int
	}{
		{"api.example.com", http.StatusOK},
		{"API.Example.COM", http.StatusOK},
		{"api.example.com:8000", http.StatusOK},
		{"localhost:3000", http.StatusOK},
		{"evil.example.com", http.StatusBadRequest},
		{"", http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := getHost(e, tc.host)
		assert.Equal(t, tc.want, rec.Code, "host %q", tc.host)
		if tc.want == http.StatusBadRequest {
			assert.Contains(t, rec.Body.String(), "untrusted_host")
		}
	}
}

func TestTrustedHost_IPv6Literals(t *testing.T) {
	e := newHostApp([]string{"::1", "2001:db8::10"}, false)

	cases := []struct {
		host string
		want int
	}{
		{"[::1]", http.StatusOK},
		{"[::1]:8000", http.StatusOK},
		{"[2001:db8::10]:443", http.StatusOK},
		{"[2001:db8::99]:443", http.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, getHost(e, tc.host).Code, "host %q", tc.host)
	}
}

func TestTrustedHost_BracketedAllowListEntry(t *testing.T) {
	// Operators sometimes write the bracketed form in TRUSTED_HOSTS.
	e := newHostApp([]string{"[::1]"}, false)
	assert.Equal(t, http.StatusOK, getHost(e, "[::1]:3000").Code)
}

func TestTrustedHost_DebugBypass(t *testing.T) {
	e := newHostApp([]string{"api.example.com"}, true)
	assert.Equal(t, http.StatusOK, getHost(e, "anything.invalid").Code)
}
