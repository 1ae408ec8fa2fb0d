package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/config"
	"github.com/haikudo/backend/internal/database"
	"github.com/haikudo/backend/internal/event"
	"github.com/haikudo/backend/internal/handler"
	"github.com/haikudo/backend/internal/limiter"
	"github.com/haikudo/backend/internal/repository"
	"github.com/haikudo/backend/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}

	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	// Redis backs the rate limiter and the response cache. When it is
	// unreachable the limiter falls back to an in-process store and the
	// cache disables itself.
	rdb := config.NewRedisClient()
	var store limiter.Store
	if rdb != nil {
		store = limiter.NewRedisStore(rdb)
	} else {
		logger.Warn().Msg("redis unavailable, rate limiting falls back to in-memory store")
		mem := limiter.NewMemoryStore()
		go func() {
			for range time.Tick(5 * time.Minute) {
				mem.Sweep()
			}
		}()
		store = mem
	}
	lim := limiter.New(store, rlCfg.Prefix)

	users := &repository.UserRepo{DB: db}
	posts := &repository.PostRepo{DB: db}
	events := event.NewPublisher(cfg.AMQPURL, logger)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Cfg:      cfg,
		RLCfg:    rlCfg,
		CacheCfg: cacheCfg,
		Logger:   logger,
		Limiter:  lim,
		RDB:      rdb,
		Users:    handler.NewUserHandler(cfg, users, events),
		Posts:    handler.NewPostHandler(cfg, posts, events),
		Auth:     handler.NewAuthHandler(cfg, users),
		Admin:    handler.NewAdminHandler(cfg, users, posts, rdb),
		Meta:     handler.NewMetaHandler(cfg, db),
	})

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
