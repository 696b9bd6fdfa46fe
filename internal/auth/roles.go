package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/society-api/pkg/util"
)

// RequireAdmin ensures the authenticated user holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("Authentication required")
		}
		if !user.IsAdmin() {
			return apperrors.NewForbidden("Access denied. Admin privileges required")
		}
		return c.Next()
	}
}
