package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/cache"
	"github.com/spec-kit/society-api/internal/content"
	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

const emailInUse = "Email already in use"

// TeamMemberInput describes a new team profile.
type TeamMemberInput struct {
	Name        string
	Email       string
	Position    domain.Position
	Image       *string
	Bio         string
	Phone       *string
	SocialLinks domain.SocialLinks
	IsActive    *bool
}

// TeamMemberPatch holds the profile fields an admin wants to change.
type TeamMemberPatch struct {
	Name        *string
	Email       *string
	Position    *domain.Position
	Image       *string
	Bio         *string
	Phone       *string
	SocialLinks *domain.SocialLinks
	IsActive    *bool
}

// TeamMemberService manages the team page.
type TeamMemberService struct {
	members repository.TeamMemberRepository
	deps    Deps
}

// NewTeamMemberService builds the service.
func NewTeamMemberService(repo repository.TeamMemberRepository, deps Deps) *TeamMemberService {
	return &TeamMemberService{members: repo, deps: deps.withDefaults()}
}

// List returns profiles ordered by position then name. Non-admins only see active members.
func (s *TeamMemberService) List(ctx context.Context, actor *domain.User, filter repository.TeamMemberFilter) ([]domain.TeamMember, error) {
	if !actor.IsAdmin() {
		active := true
		filter.Active = &active
	}
	return s.members.List(ctx, filter)
}

// Active is the cached public team listing.
func (s *TeamMemberService) Active(ctx context.Context) ([]domain.TeamMember, error) {
	const key = "active"
	var cached []domain.TeamMember
	hit, fill := s.deps.cached(ctx, cache.CollectionTeamMembers, key, &cached)
	if hit {
		return cached, nil
	}
	active := true
	list, err := s.members.List(ctx, repository.TeamMemberFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	fill(list)
	return list, nil
}

// Get hides inactive profiles from everyone but admins.
func (s *TeamMemberService) Get(ctx context.Context, actor *domain.User, id string) (*domain.TeamMember, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Team member")
	}
	if !m.IsActive && !actor.IsAdmin() {
		return nil, apperrors.NewNotFound("Team member")
	}
	return m, nil
}

func (s *TeamMemberService) Create(ctx context.Context, in TeamMemberInput) (*domain.TeamMember, error) {
	email := normalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	position := in.Position
	if position == "" {
		position = domain.PositionMember
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	m := &domain.TeamMember{
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Position:    position,
		Image:       optional(in.Image),
		Bio:         content.Sanitize(in.Bio),
		Phone:       optional(in.Phone),
		SocialLinks: cleanLinks(in.SocialLinks),
		IsActive:    active,
	}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, duplicate(err, emailInUse)
	}
	s.deps.invalidate(ctx, cache.CollectionTeamMembers)
	s.deps.Logger.Info("team member added", zap.String("member_id", m.ID))
	return m, nil
}

func (s *TeamMemberService) Update(ctx context.Context, id string, patch TeamMemberPatch) (*domain.TeamMember, error) {
	return s.mutate(ctx, id, func(m *domain.TeamMember) error {
		if patch.Email != nil {
			email := normalizeEmail(*patch.Email)
			if email != m.Email {
				if err := s.ensureEmailFree(ctx, email, m.ID); err != nil {
					return err
				}
				m.Email = email
			}
		}
		if patch.Name != nil {
			m.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Position != nil {
			m.Position = *patch.Position
		}
		if patch.Image != nil {
			m.Image = optional(patch.Image)
		}
		if patch.Bio != nil {
			m.Bio = content.Sanitize(*patch.Bio)
		}
		if patch.Phone != nil {
			m.Phone = optional(patch.Phone)
		}
		if patch.SocialLinks != nil {
			m.SocialLinks = cleanLinks(*patch.SocialLinks)
		}
		if patch.IsActive != nil {
			m.IsActive = *patch.IsActive
		}
		return nil
	})
}

// SetActive shows or hides a profile on the public team page.
func (s *TeamMemberService) SetActive(ctx context.Context, id string, active bool) (*domain.TeamMember, error) {
	return s.mutate(ctx, id, func(m *domain.TeamMember) error {
		m.IsActive = active
		return nil
	})
}

func (s *TeamMemberService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.members.Delete(ctx, id); err != nil {
		return notFound(err, "Team member")
	}
	s.deps.invalidate(ctx, cache.CollectionTeamMembers)
	return nil
}

func (s *TeamMemberService) mutate(ctx context.Context, id string, apply func(*domain.TeamMember) error) (*domain.TeamMember, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Team member")
	}
	if err := apply(m); err != nil {
		return nil, err
	}
	if err := s.members.Update(ctx, m); err != nil {
		return nil, duplicate(notFound(err, "Team member"), emailInUse)
	}
	s.deps.invalidate(ctx, cache.CollectionTeamMembers)
	return m, nil
}

func (s *TeamMemberService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.members.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		return apperrors.NewConflict(emailInUse, "email")
	default:
		return nil
	}
}

func cleanLinks(l domain.SocialLinks) domain.SocialLinks {
	return domain.SocialLinks{
		LinkedIn:  optional(l.LinkedIn),
		GitHub:    optional(l.GitHub),
		Twitter:   optional(l.Twitter),
		Portfolio: optional(l.Portfolio),
	}
}
