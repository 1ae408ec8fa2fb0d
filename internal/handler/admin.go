package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/config"
	"github.com/haikudo/backend/internal/repository"
)

// AdminHandler serves superuser-only operational endpoints.
type AdminHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Posts *repository.PostRepo
	RDB   *redis.Client
}

func NewAdminHandler(cfg config.Config, users *repository.UserRepo, posts *repository.PostRepo, rdb *redis.Client) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users, Posts: posts, RDB: rdb}
}

// Stats reports row counts, Redis health and application metadata.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Query failed"})
	}
	posts, err := h.Posts.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"database": echo.Map{
			"total_users": users,
			"total_posts": posts,
		},
		"redis": h.redisStats(ctx),
		"application": echo.Map{
			"version":     apiVersion,
			"environment": h.Cfg.Env,
		},
	})
}

// ClearCache flushes the Redis database backing the response cache.
func (h *AdminHandler) ClearCache(c echo.Context) error {
	if h.RDB == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "unavailable", "detail": "Cache is not configured"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.RDB.FlushDB(ctx).Err(); err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("cache flush failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Cache clear failed"})
	}
	zerolog.Ctx(c.Request().Context()).Info().Msg("cache cleared")
	return c.JSON(http.StatusOK, echo.Map{"message": "Cache cleared successfully"})
}

// redisStats summarizes a few fields from INFO, or reports the server as
// unavailable when Redis is absent or unreachable.
func (h *AdminHandler) redisStats(ctx context.Context) echo.Map {
	if h.RDB == nil {
		return echo.Map{"status": "unavailable"}
	}
	info, err := h.RDB.Info(ctx, "clients", "memory", "server").Result()
	if err != nil {
		return echo.Map{"status": "unavailable"}
	}

	fields := make(map[string]string)
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			fields[k] = v
		}
	}
	return echo.Map{
		"status":            "ok",
		"connected_clients": fields["connected_clients"],
		"used_memory":       fields["used_memory_human"],
		"uptime_seconds":    fields["uptime_in_seconds"],
	}
}
