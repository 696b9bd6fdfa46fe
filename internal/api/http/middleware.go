package http

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/api/dto"
	"github.com/spec-kit/society-api/internal/config"
	"github.com/spec-kit/society-api/internal/observability"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as recovery, security headers and logging.
func RegisterMiddlewares(app *fiber.App, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.Error("panic recovered", zap.Any("panic", e), zap.String("path", c.Path()), zap.Stack("stack"))
		},
	}))
	app.Use(requestid.New())
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	if cfg.App.RequestTimeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.App.RequestTimeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// NewErrorHandler renders every error returned by a handler as the error envelope.
func NewErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var domainErr *apperrors.DomainError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			domainErr = apperrors.NewDomainError(fiberErrorCode(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
		default:
			domainErr = apperrors.ToDomainError(err)
		}

		route := c.Route().Path
		metrics.RecordError(route, c.Method(), domainErr.Code)
		if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("code", domainErr.Code),
				zap.Error(err))
		}

		message := domainErr.Message
		if domainErr.HTTPStatus >= fiber.StatusInternalServerError && domainErr.Code == apperrors.CodeInternal {
			message = "Internal server error"
		}
		return c.Status(domainErr.HTTPStatus).JSON(dto.Envelope{
			Status:  "error",
			Message: message,
			Code:    domainErr.Code,
			Data:    domainErr.Details,
		})
	}
}

// NotFound answers routes nothing else matched.
func NotFound(c *fiber.Ctx) error {
	return apperrors.NewDomainError(apperrors.CodeNotFound, "Route not found", fiber.StatusNotFound,
		map[string]string{"route": fmt.Sprintf("%s %s", c.Method(), c.OriginalURL())})
}

func fiberErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperrors.CodeValidation
	case fiber.StatusNotFound:
		return apperrors.CodeNotFound
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	}
	if status >= fiber.StatusInternalServerError {
		return apperrors.CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
}
