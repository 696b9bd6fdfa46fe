package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/cache"
	"github.com/spec-kit/society-api/internal/content"
	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/events"
	"github.com/spec-kit/society-api/internal/repository"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024

	minDescriptionLength = 10
)

// EventInput describes a new event.
type EventInput struct {
	Title           string
	Description     string
	Date            time.Time
	Location        string
	Category        domain.EventCategory
	Image           *string
	MaxParticipants *int
}

// EventPatch holds the fields an admin wants to change. Nil means unchanged.
type EventPatch struct {
	Title           *string
	Description     *string
	Date            *time.Time
	Location        *string
	Category        *domain.EventCategory
	Image           *string
	MaxParticipants *int
	Status          *domain.EventStatus
}

// EventService owns event lifecycle and seat bookings.
type EventService struct {
	events    repository.EventRepository
	publicURL string
	deps      Deps
}

// NewEventService builds the service. publicURL is the site root used in QR codes.
func NewEventService(eventsRepo repository.EventRepository, publicURL string, deps Deps) *EventService {
	return &EventService{
		events:    eventsRepo,
		publicURL: strings.TrimRight(publicURL, "/"),
		deps:      deps.withDefaults(),
	}
}

// List returns events soonest first. Unfiltered by user, results are cached.
func (s *EventService) List(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	if filter.RegisteredUserID != nil {
		return s.events.List(ctx, filter)
	}

	key := fmt.Sprintf("category=%s&status=%s", deref(filter.Category), deref(filter.Status))
	var cached []domain.Event
	hit, fill := s.deps.cached(ctx, cache.CollectionEvents, key, &cached)
	if hit {
		return cached, nil
	}
	list, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	fill(list)
	return list, nil
}

// MyEvents lists the events a user holds a seat at.
func (s *EventService) MyEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	return s.List(ctx, repository.EventFilter{RegisteredUserID: &userID})
}

func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Event")
	}
	return event, nil
}

// Create stores a new upcoming event owned by actor.
func (s *EventService) Create(ctx context.Context, actor *domain.User, in EventInput) (*domain.Event, error) {
	category := in.Category
	if category == "" {
		category = domain.EventCategoryWorkshop
	}
	description, err := sanitizeDescription(in.Description)
	if err != nil {
		return nil, err
	}
	event := &domain.Event{
		Title:           strings.TrimSpace(in.Title),
		Description:     description,
		Date:            in.Date.UTC(),
		Location:        strings.TrimSpace(in.Location),
		Category:        category,
		Image:           optional(in.Image),
		MaxParticipants: in.MaxParticipants,
		Status:          domain.EventStatusUpcoming,
	}
	if actor != nil {
		event.CreatedBy = &domain.UserRef{ID: actor.ID}
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	s.deps.invalidate(ctx, cache.CollectionEvents)
	s.deps.Logger.Info("event created", zap.String("event_id", event.ID))
	return s.Get(ctx, event.ID)
}

// Update applies a partial change. Capacity cannot drop under the current headcount.
func (s *EventService) Update(ctx context.Context, id string, patch EventPatch) (*domain.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		event.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		description, err := sanitizeDescription(*patch.Description)
		if err != nil {
			return nil, err
		}
		event.Description = description
	}
	if patch.Date != nil {
		event.Date = patch.Date.UTC()
	}
	if patch.Location != nil {
		event.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.Image != nil {
		event.Image = optional(patch.Image)
	}
	if patch.MaxParticipants != nil {
		event.MaxParticipants = patch.MaxParticipants
	}
	if patch.Status != nil {
		event.Status = *patch.Status
	}

	if err := s.events.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrCapacityBelowCount) {
			return nil, apperrors.NewValidationError("", []apperrors.FieldError{{
				Field:   "maxParticipants",
				Message: fmt.Sprintf("Max participants cannot be lower than the %d current registrations", event.RegistrationCount),
			}})
		}
		return nil, notFound(err, "Event")
	}
	s.deps.invalidate(ctx, cache.CollectionEvents)
	return s.Get(ctx, id)
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return notFound(err, "Event")
	}
	s.deps.invalidate(ctx, cache.CollectionEvents)
	s.deps.Logger.Info("event deleted", zap.String("event_id", id))
	return nil
}

// Register books a seat for user. The duplicate and capacity checks are
// enforced by the repository together with the insert.
func (s *EventService) Register(ctx context.Context, id string, user *domain.User) (*domain.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.Status.AcceptsRegistrations() {
		return nil, apperrors.ErrEventClosed
	}

	if err := s.events.Register(ctx, id, user.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyRegistered):
			return nil, apperrors.ErrAlreadyRegistered
		case errors.Is(err, repository.ErrCapacityExceeded):
			return nil, apperrors.ErrCapacityExceeded
		default:
			return nil, notFound(err, "Event")
		}
	}
	return s.seatChanged(ctx, id, user.ID, events.EventSeatBooked)
}

// Unregister releases the user's seat.
func (s *EventService) Unregister(ctx context.Context, id string, user *domain.User) (*domain.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := s.events.Unregister(ctx, id, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotRegistered) {
			return nil, apperrors.ErrNotRegistered
		}
		return nil, notFound(err, "Event")
	}
	return s.seatChanged(ctx, id, user.ID, events.EventSeatReleased)
}

func (s *EventService) seatChanged(ctx context.Context, id, userID string, eventType events.EventType) (*domain.Event, error) {
	s.deps.invalidate(ctx, cache.CollectionEvents)
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.deps.Logger.Info(string(eventType),
		zap.String("event_id", id),
		zap.String("user_id", userID),
		zap.Int("registration_count", event.RegistrationCount))
	s.deps.publish(ctx, events.New(eventType, id, &userID, events.SeatPayload{
		EventID:           id,
		Title:             event.Title,
		UserID:            userID,
		RegistrationCount: event.RegistrationCount,
	}))
	return event, nil
}

// QRCode renders a PNG linking to the event page on the public site.
func (s *EventService) QRCode(ctx context.Context, id string, size int) ([]byte, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}
	return qrcode.Encode(s.EventURL(event.ID), qrcode.Medium, size)
}

// EventURL is the public page of an event.
func (s *EventService) EventURL(id string) string {
	return s.publicURL + "/events/" + id
}

// sanitizeDescription cleans the markup and checks the length of what is kept.
func sanitizeDescription(raw string) (string, error) {
	clean := content.Sanitize(raw)
	if utf8.RuneCountInString(clean) < minDescriptionLength {
		return "", apperrors.NewValidationError("", []apperrors.FieldError{{
			Field:   "description",
			Message: fmt.Sprintf("Description must be at least %d characters", minDescriptionLength),
		}})
	}
	return clean, nil
}

func deref[T ~string](v *T) string {
	if v == nil {
		return ""
	}
	return string(*v)
}
