package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/cache"
	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/events"
	"github.com/spec-kit/society-api/internal/repository"
)

// AnnouncementInput describes a new announcement.
type AnnouncementInput struct {
	Title       string
	Content     string
	Category    domain.AnnouncementCategory
	Image       *string
	IsPinned    bool
	IsPublished *bool
}

// AnnouncementPatch holds the fields an admin wants to change.
type AnnouncementPatch struct {
	Title       *string
	Content     *string
	Category    *domain.AnnouncementCategory
	Image       *string
	IsPinned    *bool
	IsPublished *bool
}

// AnnouncementService manages the news feed.
type AnnouncementService struct {
	announcements repository.AnnouncementRepository
	deps          Deps
}

// NewAnnouncementService builds the service.
func NewAnnouncementService(repo repository.AnnouncementRepository, deps Deps) *AnnouncementService {
	return &AnnouncementService{announcements: repo, deps: deps.withDefaults()}
}

// List returns the feed as actor may see it. Only admins see unpublished items.
func (s *AnnouncementService) List(ctx context.Context, actor *domain.User, filter repository.AnnouncementFilter) ([]domain.Announcement, error) {
	if actor.IsAdmin() {
		return s.announcements.List(ctx, filter)
	}
	filter.PublishedOnly = true

	key := fmt.Sprintf("category=%s&pinned=%t", deref(filter.Category), filter.PinnedOnly)
	var cached []domain.Announcement
	hit, fill := s.deps.cached(ctx, cache.CollectionAnnouncements, key, &cached)
	if hit {
		return cached, nil
	}
	list, err := s.announcements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	fill(list)
	return list, nil
}

// ListAll returns every announcement, published or not.
func (s *AnnouncementService) ListAll(ctx context.Context, category *domain.AnnouncementCategory) ([]domain.Announcement, error) {
	return s.announcements.List(ctx, repository.AnnouncementFilter{Category: category})
}

// Get hides unpublished announcements from everyone but admins.
func (s *AnnouncementService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Announcement, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Announcement")
	}
	if !a.IsPublished && !actor.IsAdmin() {
		return nil, notFound(repository.ErrNotFound, "Announcement")
	}
	return a, nil
}

func (s *AnnouncementService) Create(ctx context.Context, actor *domain.User, in AnnouncementInput) (*domain.Announcement, error) {
	category := in.Category
	if category == "" {
		category = domain.AnnouncementCategoryNews
	}
	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	a := &domain.Announcement{
		Title:       strings.TrimSpace(in.Title),
		Content:     strings.TrimSpace(in.Content),
		Category:    category,
		Image:       optional(in.Image),
		IsPinned:    in.IsPinned,
		IsPublished: published,
	}
	if actor != nil {
		a.CreatedBy = &domain.UserRef{ID: actor.ID}
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, err
	}
	s.deps.invalidate(ctx, cache.CollectionAnnouncements)
	s.deps.Logger.Info("announcement created", zap.String("announcement_id", a.ID), zap.Bool("published", a.IsPublished))
	if a.IsPublished {
		s.announcePublished(ctx, a)
	}
	return s.Get(ctx, actor, a.ID)
}

func (s *AnnouncementService) Update(ctx context.Context, actor *domain.User, id string, patch AnnouncementPatch) (*domain.Announcement, error) {
	return s.mutate(ctx, actor, id, func(a *domain.Announcement) {
		if patch.Title != nil {
			a.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Content != nil {
			a.Content = strings.TrimSpace(*patch.Content)
		}
		if patch.Category != nil {
			a.Category = *patch.Category
		}
		if patch.Image != nil {
			a.Image = optional(patch.Image)
		}
		if patch.IsPinned != nil {
			a.IsPinned = *patch.IsPinned
		}
		if patch.IsPublished != nil {
			a.IsPublished = *patch.IsPublished
		}
	})
}

// TogglePin flips the pinned flag.
func (s *AnnouncementService) TogglePin(ctx context.Context, actor *domain.User, id string) (*domain.Announcement, error) {
	return s.mutate(ctx, actor, id, func(a *domain.Announcement) { a.IsPinned = !a.IsPinned })
}

// TogglePublish flips the published flag.
func (s *AnnouncementService) TogglePublish(ctx context.Context, actor *domain.User, id string) (*domain.Announcement, error) {
	return s.mutate(ctx, actor, id, func(a *domain.Announcement) { a.IsPublished = !a.IsPublished })
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, id); err != nil {
		return notFound(err, "Announcement")
	}
	s.deps.invalidate(ctx, cache.CollectionAnnouncements)
	return nil
}

func (s *AnnouncementService) mutate(ctx context.Context, actor *domain.User, id string, apply func(*domain.Announcement)) (*domain.Announcement, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Announcement")
	}
	wasPublished := a.IsPublished
	apply(a)
	if err := s.announcements.Update(ctx, a); err != nil {
		return nil, notFound(err, "Announcement")
	}
	s.deps.invalidate(ctx, cache.CollectionAnnouncements)
	if a.IsPublished && !wasPublished {
		s.announcePublished(ctx, a)
	}
	return s.Get(ctx, actor, id)
}

func (s *AnnouncementService) announcePublished(ctx context.Context, a *domain.Announcement) {
	s.deps.publish(ctx, events.New(events.EventAnnouncementPublished, a.ID, nil, events.AnnouncementPublishedPayload{
		Title:    a.Title,
		Category: string(a.Category),
		IsPinned: a.IsPinned,
	}))
}
