package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/quillpost/backend/internal/cache"
	"github.com/anonto42/quillpost/backend/internal/router"
	"github.com/anonto42/quillpost/backend/pkg/config"
	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
	"github.com/anonto42/quillpost/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		pkglog.L().Fatal().Err(err).Msg("failed to load configuration")
	}
	pkglog.Init(cfg.Log)
	l := pkglog.L()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize databases")
	}
	defer db.CloseDB()

	if err := config.Migrate(db.SQL); err != nil {
		l.Fatal().Err(err).Msg("failed to migrate schema")
	}

	var counts cache.CountCache = cache.NopCountCache{}
	if db.Redis != nil {
		counts = cache.NewRedisCountCache(db.Redis, cfg.Redis.CountTTL)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	config.SetupMiddleware(e)
	router.SetupRoutes(e, db.SQL, counts, cfg.JWTSecret)

	go func() {
		l.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("graceful shutdown failed")
	}
	l.Info().Msg("server stopped")
}
