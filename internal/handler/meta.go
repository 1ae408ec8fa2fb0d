package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haikudo/backend/internal/config"
)

const (
	apiVersion  = "1.0.0"
	serviceName = "haikudo-backend"
)

// MetaHandler serves the unversioned service endpoints: root, health and
// diagnostic probes.
type MetaHandler struct {
	Cfg config.Config
	DB  *sql.DB
}

func NewMetaHandler(cfg config.Config, db *sql.DB) *MetaHandler {
	return &MetaHandler{Cfg: cfg, DB: db}
}

func (h *MetaHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to Haikudo Backend API"})
}

func (h *MetaHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":      "healthy",
		"service":     serviceName,
		"version":     apiVersion,
		"environment": h.Cfg.Env,
	})
}

// Info lists the API surface without exposing configuration values.
func (h *MetaHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"name":        serviceName,
		"version":     apiVersion,
		"environment": h.Cfg.Env,
		"docs":        "/api/v1",
		"endpoints": echo.Map{
			"auth":  []string{"/api/v1/users/register", "/api/v1/users/login", "/api/v1/auth/refresh-token"},
			"users": []string{"/api/v1/users", "/api/v1/users/profile", "/api/v1/users/:id"},
			"posts": []string{"/api/v1/posts", "/api/v1/posts/:id", "/api/v1/posts/user/:id"},
		},
	})
}

// TestDB round-trips a trivial query through the connection pool.
func (h *MetaHandler) TestDB(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var one int
	if err := h.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "unavailable", "detail": "Database connection failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "database": "connected"})
}
