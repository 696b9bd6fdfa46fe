package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/cache"
	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

// ProfileInput lists the fields a member may change on their own account.
type ProfileInput struct {
	FullName *string
	Email    *string
}

// UserService manages accounts after sign-up.
type UserService struct {
	users repository.UserRepository
	deps  Deps
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, deps Deps) *UserService {
	return &UserService{users: users, deps: deps.withDefaults()}
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

// UpdateProfile changes name and email. A new email must not belong to anyone else.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User")
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != "" && email != user.Email {
			if _, err := s.users.GetByEmail(ctx, email); err == nil {
				return nil, apperrors.NewConflict("Email already in use", "email")
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.FullName != nil && strings.TrimSpace(*in.FullName) != "" {
		user.FullName = strings.TrimSpace(*in.FullName)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, duplicate(notFound(err, "User"), "Email already in use")
	}
	s.dropUserRefs(ctx)
	return user, nil
}

// DeleteAccount removes the caller's account and releases their event seats.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return notFound(err, "User")
	}
	s.dropUserRefs(ctx)
	s.deps.Logger.Info("account deleted", zap.String("user_id", userID))
	return nil
}

// dropUserRefs clears cached listings that embed creator and attendee names.
func (s *UserService) dropUserRefs(ctx context.Context) {
	s.deps.invalidate(ctx, cache.CollectionEvents)
	s.deps.invalidate(ctx, cache.CollectionAnnouncements)
}

// ListMembers returns every non-admin account, newest first.
func (s *UserService) ListMembers(ctx context.Context) ([]domain.User, error) {
	role := domain.RoleUser
	return s.users.List(ctx, repository.UserFilter{Role: &role})
}

// Get returns a user to an admin or to the user themself.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if actor == nil || (!actor.IsAdmin() && actor.ID != id) {
		return nil, apperrors.NewForbidden("Access denied")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

// SetActive activates or deactivates an account.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFound(err, "User")
	}
	s.deps.Logger.Info("user activation changed", zap.String("user_id", id), zap.Bool("active", active))
	return user, nil
}
