package domain

import "time"

// EventCategory classifies society events.
type EventCategory string

const (
	EventCategoryWorkshop    EventCategory = "workshop"
	EventCategoryCompetition EventCategory = "competition"
	EventCategorySeminar     EventCategory = "seminar"
	EventCategoryHackathon   EventCategory = "hackathon"
	EventCategoryNetworking  EventCategory = "networking"
	EventCategoryOther       EventCategory = "other"
)

// EventStatus tracks where an event is in its lifecycle.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// AcceptsRegistrations reports whether users may still sign up.
func (s EventStatus) AcceptsRegistrations() bool {
	return s == EventStatusUpcoming || s == EventStatusOngoing
}

// Event is a society event members can register for.
type Event struct {
	ID                string
	Title             string
	Description       string
	Date              time.Time
	Location          string
	Category          EventCategory
	Image             *string
	MaxParticipants   *int
	RegistrationCount int
	Registrations     []EventRegistration
	Status            EventStatus
	CreatedBy         *UserRef
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsFull reports whether the capacity limit has been reached.
func (e *Event) IsFull() bool {
	return e.MaxParticipants != nil && e.RegistrationCount >= *e.MaxParticipants
}

// EventRegistration records a user's seat at an event.
type EventRegistration struct {
	EventID      string
	User         UserRef
	RegisteredAt time.Time
}
