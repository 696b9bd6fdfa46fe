package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
)

var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)

// RegistrationRepository implements repository.RegistrationRepository in memory.
type RegistrationRepository struct {
	s *Store
}

func (r *RegistrationRepository) Create(_ context.Context, reg *domain.Registration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reg.ID = newID()
	reg.CreatedAt = r.s.tick()
	reg.UpdatedAt = reg.CreatedAt
	r.s.registrations[reg.ID] = *reg
	return nil
}

func (r *RegistrationRepository) Update(_ context.Context, reg *domain.Registration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.registrations[reg.ID]
	if !ok {
		return repository.ErrNotFound
	}
	reg.CreatedAt = current.CreatedAt
	reg.UpdatedAt = r.s.tick()
	r.s.registrations[reg.ID] = *reg
	return nil
}

func (r *RegistrationRepository) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reg, ok := r.s.registrations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &reg, nil
}

func (r *RegistrationRepository) List(_ context.Context) ([]domain.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.Registration, 0, len(r.s.registrations))
	for _, reg := range r.s.registrations {
		result = append(result, reg)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *RegistrationRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.registrations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.registrations, id)
	return nil
}
