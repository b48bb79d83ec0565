package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aquafund-backend/internal/config"
	"aquafund-backend/internal/interfaces/router"
	"aquafund-backend/internal/pkg/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Production: cfg.Env == "production"})

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if db != nil {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Postgres connection failed")
		}
		log.Info().Msg("Postgres connected")
	}
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		log.Info().Msg("Redis connected")
	}
	cancel()

	if cfg.BackendAPIURL == "" {
		log.Warn().Msg("BACKEND_API_URL is not set; proxied routes will answer 500")
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Int64("chain_id", cfg.ChainID).
		Msgf("Server running at http://localhost:%s (health: /health/json)", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
