package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/society-api/internal/api/dto"
	"github.com/spec-kit/society-api/internal/auth"
	"github.com/spec-kit/society-api/internal/domain"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.Envelope{Status: "success", Message: message, Data: data})
}

// bind decodes the JSON body into req, trims it and runs its validate tags
// against the values that will be stored.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	apperrors.TrimStrings(req)
	return apperrors.ValidateStruct(req)
}

// actor is the signed-in caller, nil for guests.
func actor(c *fiber.Ctx) *domain.User {
	user, _ := auth.UserFromContext(c)
	return user
}

// mustActor is used behind Handle, which guarantees a user.
func mustActor(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthenticated("Authentication required")
	}
	return user, nil
}

func queryBool(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryEnum[T ~string](c *fiber.Ctx, key string) *T {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v := T(raw)
	return &v
}

func enumPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}

func invalidDate() error {
	return apperrors.NewValidationError("", []apperrors.FieldError{{Field: "date", Message: "Please provide a valid date"}})
}
