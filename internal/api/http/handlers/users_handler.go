package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/society-api/internal/api/dto"
	"github.com/spec-kit/society-api/internal/service"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService}
}

// Register handles POST /api/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "User registered successfully", authResponse(res))
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Login successful", authResponse(res))
}

// Profile handles GET /api/users/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	me, err := mustActor(c)
	if err != nil {
		return err
	}
	user, err := h.users.Profile(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Profile retrieved successfully", fiber.Map{"user": dto.NewUserResponse(user)})
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	me, err := mustActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.UserContext(), me.ID, service.ProfileInput{FullName: req.FullName, Email: req.Email})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{"user": dto.NewUserResponse(user)})
}

// ChangePassword handles POST /api/users/change-password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	me, err := mustActor(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), me.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Password changed successfully", nil)
}

// DeleteAccount handles DELETE /api/users/account.
func (h *UsersHandler) DeleteAccount(c *fiber.Ctx) error {
	me, err := mustActor(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteAccount(c.UserContext(), me.ID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Account deleted successfully", nil)
}

// ListAll handles GET /api/users/all.
func (h *UsersHandler) ListAll(c *fiber.Ctx) error {
	users, err := h.users.ListMembers(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Users retrieved successfully", fiber.Map{
		"count": len(users),
		"users": dto.NewUserList(users),
	})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "User retrieved successfully", fiber.Map{"user": dto.NewUserResponse(user)})
}

// Activate handles PUT /api/users/:id/activate.
func (h *UsersHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true, "User activated successfully")
}

// Deactivate handles PUT /api/users/:id/deactivate.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false, "User deactivated successfully")
}

func (h *UsersHandler) setActive(c *fiber.Ctx, active bool, message string) error {
	user, err := h.users.SetActive(c.UserContext(), c.Params("id"), active)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message, fiber.Map{"user": dto.NewUserResponse(user)})
}

func authResponse(res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:      dto.NewUserResponse(res.User),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}
}
