package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/config"
	"github.com/spec-kit/society-api/internal/observability"
)

// NewApp builds the fiber app with the shared error handler and global middlewares.
// Routes are added separately with RegisterRoutes.
func NewApp(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		BodyLimit:             cfg.App.BodyLimitBytes,
		ErrorHandler:          NewErrorHandler(logger, metrics),
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, cfg, logger, metrics)
	return app
}
