package dto

import (
	"time"

	"github.com/spec-kit/society-api/internal/domain"
)

// CreateRegistrationRequest is the public membership form.
type CreateRegistrationRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=1"`
	LastName  string  `json:"lastName" validate:"required,min=1"`
	Email     string  `json:"email" validate:"required,email"`
	Subject   string  `json:"subject" validate:"required,min=3"`
	Message   *string `json:"message"`
}

// UpdateRegistrationRequest carries only the fields to change.
type UpdateRegistrationRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Subject   *string `json:"subject" validate:"omitempty,min=3"`
	Message   *string `json:"message"`
}

type RegistrationResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewRegistrationResponse(r *domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Subject:   r.Subject,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func NewRegistrationList(list []domain.Registration) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(list))
	for i := range list {
		out = append(out, NewRegistrationResponse(&list[i]))
	}
	return out
}

// UploadResponse points at the stored image.
type UploadResponse struct {
	SecureURL string `json:"secureUrl"`
	PublicID  string `json:"publicId"`
}
