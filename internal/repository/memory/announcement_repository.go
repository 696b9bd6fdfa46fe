package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
)

var _ repository.AnnouncementRepository = (*AnnouncementRepository)(nil)

// AnnouncementRepository implements repository.AnnouncementRepository in memory.
type AnnouncementRepository struct {
	s *Store
}

func (r *AnnouncementRepository) Create(_ context.Context, a *domain.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a.ID = newID()
	a.CreatedAt = r.s.tick()
	a.UpdatedAt = a.CreatedAt
	r.s.announcements[a.ID] = *a
	return nil
}

func (r *AnnouncementRepository) Update(_ context.Context, a *domain.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.announcements[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	a.CreatedAt = current.CreatedAt
	a.CreatedBy = current.CreatedBy
	a.UpdatedAt = r.s.tick()
	r.s.announcements[a.ID] = *a
	return nil
}

func (r *AnnouncementRepository) GetByID(_ context.Context, id string) (*domain.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.announcements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a.CreatedBy = r.s.ref(a.CreatedBy)
	return &a, nil
}

func (r *AnnouncementRepository) List(_ context.Context, filter repository.AnnouncementFilter) ([]domain.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.Announcement, 0, len(r.s.announcements))
	for _, a := range r.s.announcements {
		if filter.Category != nil && a.Category != *filter.Category {
			continue
		}
		if filter.PinnedOnly && !a.IsPinned {
			continue
		}
		if filter.PublishedOnly && !a.IsPublished {
			continue
		}
		a.CreatedBy = r.s.ref(a.CreatedBy)
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return result, nil
}

func (r *AnnouncementRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.announcements[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.announcements, id)
	return nil
}
