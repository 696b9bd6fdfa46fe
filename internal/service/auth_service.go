package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/auth"
	"github.com/spec-kit/society-api/internal/config"
	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/events"
	"github.com/spec-kit/society-api/internal/repository"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

const invalidCredentials = "Invalid email or password"

// RegisterInput carries a self sign-up.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	deps       Deps
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, deps Deps) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		bcryptCost: cfg.BcryptCost,
		deps:       deps.withDefaults(),
	}
}

// Register creates a new member account and signs them in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("Email already registered", "email")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, duplicate(err, "Email already registered")
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.deps.Logger.Info("user registered", zap.String("user_id", user.ID))
	s.deps.publish(ctx, events.New(events.EventUserRegistered, user.ID, nil, events.UserRegisteredPayload{
		Email:    user.Email,
		FullName: user.FullName,
	}))
	return result, nil
}

// Login authenticates a member. A deactivated account is refused before the
// password is checked.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthenticated(invalidCredentials)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewForbidden("User account is deactivated")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthenticated(invalidCredentials)
	}
	return s.issue(user)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "User")
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthenticated("Current password is incorrect")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return notFound(err, "User")
	}
	s.deps.Logger.Info("password changed", zap.String("user_id", user.ID))
	return nil
}

// SeedAdmin creates the first admin account unless one already exists.
func (s *AuthService) SeedAdmin(ctx context.Context, cfg config.AdminConfig) (bool, error) {
	exists, err := s.users.ExistsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if cfg.Email == "" || cfg.Password == "" {
		return false, errors.New("admin credentials not configured")
	}

	hash, err := auth.HashPassword(cfg.Password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	admin := &domain.User{
		Email:        normalizeEmail(cfg.Email),
		PasswordHash: hash,
		FullName:     cfg.FullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, err
	}
	s.deps.Logger.Info("admin account seeded", zap.String("email", admin.Email))
	return true, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
