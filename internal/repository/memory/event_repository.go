package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
)

var _ repository.EventRepository = (*EventRepository)(nil)

// EventRepository implements repository.EventRepository in memory.
type EventRepository struct {
	s *Store
}

func (r *EventRepository) Create(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event.ID = newID()
	event.RegistrationCount = 0
	event.Registrations = nil
	event.CreatedAt = r.s.tick()
	event.UpdatedAt = event.CreatedAt
	r.s.events[event.ID] = *event
	return nil
}

// Update persists editable fields. Seats and creator are owned by the store.
func (r *EventRepository) Update(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.events[event.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if event.MaxParticipants != nil && *event.MaxParticipants < current.RegistrationCount {
		return repository.ErrCapacityBelowCount
	}
	current.Title = event.Title
	current.Description = event.Description
	current.Date = event.Date
	current.Location = event.Location
	current.Category = event.Category
	current.Image = event.Image
	current.MaxParticipants = event.MaxParticipants
	current.Status = event.Status
	current.UpdatedAt = r.s.tick()
	r.s.events[event.ID] = current

	event.UpdatedAt = current.UpdatedAt
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.view(event)
	return &out, nil
}

func (r *EventRepository) List(_ context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.Event, 0, len(r.s.events))
	for _, event := range r.s.events {
		if filter.Category != nil && event.Category != *filter.Category {
			continue
		}
		if filter.Status != nil && event.Status != *filter.Status {
			continue
		}
		if filter.RegisteredUserID != nil && !holdsSeat(event, *filter.RegisteredUserID) {
			continue
		}
		result = append(result, r.view(event))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.events, id)
	return nil
}

// Register checks for a duplicate, checks capacity and books the seat under
// the store lock, so concurrent callers cannot oversubscribe an event.
func (r *EventRepository) Register(_ context.Context, eventID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.events[eventID]
	if !ok {
		return repository.ErrNotFound
	}
	if holdsSeat(event, userID) {
		return repository.ErrAlreadyRegistered
	}
	if event.IsFull() {
		return repository.ErrCapacityExceeded
	}
	regs := make([]domain.EventRegistration, len(event.Registrations), len(event.Registrations)+1)
	copy(regs, event.Registrations)
	event.Registrations = append(regs, domain.EventRegistration{
		EventID:      eventID,
		User:         domain.UserRef{ID: userID},
		RegisteredAt: r.s.tick(),
	})
	event.RegistrationCount = len(event.Registrations)
	r.s.events[eventID] = event
	return nil
}

func (r *EventRepository) Unregister(_ context.Context, eventID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.events[eventID]
	if !ok {
		return repository.ErrNotFound
	}
	if !holdsSeat(event, userID) {
		return repository.ErrNotRegistered
	}
	regs := make([]domain.EventRegistration, 0, len(event.Registrations))
	for _, reg := range event.Registrations {
		if reg.User.ID != userID {
			regs = append(regs, reg)
		}
	}
	event.Registrations = regs
	event.RegistrationCount = len(regs)
	r.s.events[eventID] = event
	return nil
}

// view populates user references. Caller holds mu.
func (r *EventRepository) view(event domain.Event) domain.Event {
	event.CreatedBy = r.s.ref(event.CreatedBy)
	regs := make([]domain.EventRegistration, 0, len(event.Registrations))
	for _, reg := range event.Registrations {
		if ref := r.s.ref(&reg.User); ref != nil {
			reg.User = *ref
		}
		regs = append(regs, reg)
	}
	event.Registrations = regs
	return event
}

func holdsSeat(event domain.Event, userID string) bool {
	for _, reg := range event.Registrations {
		if reg.User.ID == userID {
			return true
		}
	}
	return false
}
