package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSeatBooked                EventType = "event_registered"
	EventSeatReleased              EventType = "event_unregistered"
	EventAnnouncementPublished     EventType = "announcement_published"
	EventMembershipInquiryReceived EventType = "membership_inquiry_received"
	EventUserRegistered            EventType = "user_registered"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subjectId"`
	ActorID   *string   `json:"actorId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subjectID string, actorID *string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SeatPayload accompanies seat bookings and releases.
type SeatPayload struct {
	EventID           string `json:"eventId"`
	Title             string `json:"title"`
	UserID            string `json:"userId"`
	RegistrationCount int    `json:"registrationCount"`
}

// AnnouncementPublishedPayload payload.
type AnnouncementPublishedPayload struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	IsPinned bool   `json:"isPinned"`
}

// MembershipInquiryPayload payload.
type MembershipInquiryPayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}
