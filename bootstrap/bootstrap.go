package bootstrap

import (
	"aquafund-backend/internal/config"
	"aquafund-backend/internal/interfaces/router"
	"aquafund-backend/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// New builds the gateway for the serverless entry, which cannot import internal packages.
// Logs go to stdout as JSON there.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Production: true})

	app, _, _, err := router.CreateApp(cfg)
	if err != nil {
		return nil, err
	}
	return app, nil
}
