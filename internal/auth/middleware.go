package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

const userKey = "auth_user"

// AuthMiddleware validates bearer tokens and loads the caller.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	user, err := m.resolve(c, token)
	if err != nil {
		return err
	}
	c.Locals(userKey, user)
	return c.Next()
}

// Optional authenticates when a bearer token is present and lets guests through otherwise.
// A present but bad token is still rejected.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if strings.TrimSpace(c.Get(fiber.HeaderAuthorization)) == "" {
		return c.Next()
	}
	return m.Handle(c)
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx, token string) (*domain.User, error) {
	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperrors.NewTokenExpired(err)
		}
		return nil, apperrors.NewInvalidToken(err)
	}

	user, err := m.users.GetByID(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("User")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, apperrors.NewForbidden("User account is deactivated")
	}
	return user, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthenticated("No token provided. Please authenticate")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthenticated("Invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// UserFromContext retrieves the authenticated user, if any.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(userKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok && user != nil
}
