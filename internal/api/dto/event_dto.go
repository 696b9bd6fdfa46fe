package dto

import (
	"time"

	"github.com/spec-kit/society-api/internal/domain"
)

// CreateEventRequest payload. Date is parsed separately so any browser format is accepted.
type CreateEventRequest struct {
	Title           string  `json:"title" validate:"required,min=3"`
	Description     string  `json:"description" validate:"required,min=10"`
	Date            string  `json:"date" validate:"required"`
	Location        string  `json:"location" validate:"required"`
	Category        string  `json:"category" validate:"omitempty,oneof=workshop competition seminar hackathon networking other"`
	Image           *string `json:"image"`
	MaxParticipants *int    `json:"maxParticipants" validate:"omitempty,min=1"`
}

// UpdateEventRequest carries only the fields to change.
type UpdateEventRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=3"`
	Description     *string `json:"description" validate:"omitempty,min=10"`
	Date            *string `json:"date"`
	Location        *string `json:"location" validate:"omitempty,min=1"`
	Category        *string `json:"category" validate:"omitempty,oneof=workshop competition seminar hackathon networking other"`
	Image           *string `json:"image"`
	MaxParticipants *int    `json:"maxParticipants" validate:"omitempty,min=1"`
	Status          *string `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

// EventRegistrationResponse is one attendee.
type EventRegistrationResponse struct {
	User         UserRefResponse `json:"user"`
	RegisteredAt time.Time       `json:"registeredAt"`
}

// EventResponse is the populated event.
type EventResponse struct {
	ID                string                      `json:"id"`
	Title             string                      `json:"title"`
	Description       string                      `json:"description"`
	Date              time.Time                   `json:"date"`
	Location          string                      `json:"location"`
	Category          domain.EventCategory        `json:"category"`
	Image             *string                     `json:"image"`
	MaxParticipants   *int                        `json:"maxParticipants"`
	RegistrationCount int                         `json:"registrationCount"`
	Registrations     []EventRegistrationResponse `json:"registrations"`
	Status            domain.EventStatus          `json:"status"`
	CreatedBy         *UserRefResponse            `json:"createdBy"`
	CreatedAt         time.Time                   `json:"createdAt"`
	UpdatedAt         time.Time                   `json:"updatedAt"`
}

func NewEventResponse(e *domain.Event) EventResponse {
	regs := make([]EventRegistrationResponse, 0, len(e.Registrations))
	for _, r := range e.Registrations {
		regs = append(regs, EventRegistrationResponse{
			User:         *userRef(&r.User),
			RegisteredAt: r.RegisteredAt,
		})
	}
	return EventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		Date:              e.Date,
		Location:          e.Location,
		Category:          e.Category,
		Image:             e.Image,
		MaxParticipants:   e.MaxParticipants,
		RegistrationCount: e.RegistrationCount,
		Registrations:     regs,
		Status:            e.Status,
		CreatedBy:         userRef(e.CreatedBy),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func NewEventList(events []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, NewEventResponse(&events[i]))
	}
	return out
}
