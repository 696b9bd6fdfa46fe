package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implements repository.UserRepository in memory.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return fmt.Errorf("%w: email", repository.ErrDuplicate)
	}
	user.ID = newID()
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return fmt.Errorf("%w: email", repository.ErrDuplicate)
	}
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = r.s.tick()
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *UserRepository) ExistsWithRole(_ context.Context, role domain.Role) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Role == role {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the user and releases every seat they held.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	for eventID, event := range r.s.events {
		kept := event.Registrations[:0:0]
		for _, reg := range event.Registrations {
			if reg.User.ID != id {
				kept = append(kept, reg)
			}
		}
		if len(kept) != len(event.Registrations) {
			event.Registrations = kept
			event.RegistrationCount = len(kept)
			r.s.events[eventID] = event
		}
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for _, user := range r.s.users {
		if user.ID != exceptID && strings.EqualFold(user.Email, email) {
			return true
		}
	}
	return false
}
