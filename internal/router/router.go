// Package router wires handlers, middleware and per-route quotas onto the
// Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/config"
	"github.com/haikudo/backend/internal/handler"
	"github.com/haikudo/backend/internal/limiter"
	"github.com/haikudo/backend/internal/middleware"
)

// Deps collects everything the route table needs. Optional fields (RDB,
// Limiter) may be nil; the middleware they feed degrades gracefully.
type Deps struct {
	Cfg      config.Config
	RLCfg    config.RateLimitConfig
	CacheCfg config.CacheConfig
	Logger   zerolog.Logger
	Limiter  *limiter.Limiter
	RDB      *redis.Client

	Users *handler.UserHandler
	Posts *handler.PostHandler
	Auth  *handler.AuthHandler
	Admin *handler.AdminHandler
	Meta  *handler.MetaHandler
}

// Register installs global middleware and the full route table.
//
// Global order matters: security headers and the request logger run
// outermost so they cover every response, including host rejections and
// rate limit denials produced further in.
func Register(e *echo.Echo, d Deps) {
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.TrustedHost(d.Cfg.TrustedHosts, d.Cfg.Debug))
	e.Use(echomw.CORSWithConfig(corsConfig(d.Cfg)))

	rl := func(quota int) echo.MiddlewareFunc {
		return middleware.RateLimit(d.RLCfg, d.Limiter, quota)
	}

	// Auth sits after the limiter in every chain: a throttled request is
	// answered before it costs a signature check or a user lookup.
	authn := middleware.Authenticate(d.Cfg.SecretKey, d.Users.Users)
	user := middleware.RequireUser()
	super := middleware.RequireSuperuser()

	e.GET("/", d.Meta.Root, rl(10))
	e.GET("/health", d.Meta.Health, rl(30))

	api := e.Group("/api/v1")
	api.GET("/info", d.Meta.Info, rl(10))
	api.GET("/test-db", d.Meta.TestDB, rl(5))

	users := api.Group("/users")
	users.POST("/register", d.Users.Register, rl(5))
	users.POST("/login", d.Users.Login, rl(10))
	users.GET("/profile", d.Users.Profile, rl(30), authn, user)
	users.PUT("/profile", d.Users.UpdateProfile, rl(10), authn, user)
	users.GET("", d.Users.List, rl(20))
	users.GET("/:id", d.Users.GetByID, rl(30))
	users.DELETE("/:id", d.Users.Delete, rl(5), authn, user, super)

	cache := middleware.ResponseCache(d.CacheCfg, d.RDB)
	posts := api.Group("/posts")
	posts.POST("", d.Posts.Create, rl(10), authn, user)
	posts.GET("", d.Posts.List, rl(30), cache)
	posts.GET("/user/:id", d.Posts.ListByUser, rl(30))
	posts.GET("/:id", d.Posts.Get, rl(50), cache)
	posts.PUT("/:id", d.Posts.Update, rl(10), authn, user)
	posts.DELETE("/:id", d.Posts.Delete, rl(5), authn, user)

	authg := api.Group("/auth")
	authg.POST("/forgot-password", d.Auth.ForgotPassword, rl(3))
	authg.POST("/reset-password", d.Auth.ResetPassword, rl(5))
	authg.POST("/refresh-token", d.Auth.RefreshToken, rl(10), authn, user)

	admin := api.Group("/admin")
	admin.GET("/stats", d.Admin.Stats, rl(10), authn, user, super)
	admin.DELETE("/cache", d.Admin.ClearCache, rl(3), authn, user, super)
}

// corsConfig allows the configured origins, or any origin in debug mode,
// and exposes the tracing headers set by the request logger.
func corsConfig(cfg config.Config) echomw.CORSConfig {
	origins := cfg.CORSOrigins
	if cfg.Debug {
		origins = []string{"*"}
	}
	return echomw.CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders: []string{"X-Request-ID", "X-Process-Time"},
	}
}
