package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
)

var _ repository.TeamMemberRepository = (*TeamMemberRepository)(nil)

// TeamMemberRepository implements repository.TeamMemberRepository in memory.
type TeamMemberRepository struct {
	s *Store
}

func (r *TeamMemberRepository) Create(_ context.Context, m *domain.TeamMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(m.Email, "") {
		return fmt.Errorf("%w: email", repository.ErrDuplicate)
	}
	m.ID = newID()
	m.CreatedAt = r.s.tick()
	m.UpdatedAt = m.CreatedAt
	r.s.members[m.ID] = *m
	return nil
}

func (r *TeamMemberRepository) Update(_ context.Context, m *domain.TeamMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.members[m.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(m.Email, m.ID) {
		return fmt.Errorf("%w: email", repository.ErrDuplicate)
	}
	m.CreatedAt = current.CreatedAt
	m.UpdatedAt = r.s.tick()
	r.s.members[m.ID] = *m
	return nil
}

func (r *TeamMemberRepository) GetByID(_ context.Context, id string) (*domain.TeamMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *TeamMemberRepository) GetByEmail(_ context.Context, email string) (*domain.TeamMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.members {
		if strings.EqualFold(m.Email, email) {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *TeamMemberRepository) List(_ context.Context, filter repository.TeamMemberFilter) ([]domain.TeamMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.TeamMember, 0, len(r.s.members))
	for _, m := range r.s.members {
		if filter.Position != nil && m.Position != *filter.Position {
			continue
		}
		if filter.Active != nil && m.IsActive != *filter.Active {
			continue
		}
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return result, nil
}

func (r *TeamMemberRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.members[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.members, id)
	return nil
}

func (r *TeamMemberRepository) emailTaken(email, exceptID string) bool {
	for _, m := range r.s.members {
		if m.ID != exceptID && strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}
