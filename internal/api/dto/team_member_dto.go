package dto

import (
	"time"

	"github.com/spec-kit/society-api/internal/domain"
)

// SocialLinksPayload is shared by requests and responses.
type SocialLinksPayload struct {
	LinkedIn  *string `json:"linkedin"`
	GitHub    *string `json:"github"`
	Twitter   *string `json:"twitter"`
	Portfolio *string `json:"portfolio"`
}

// CreateTeamMemberRequest payload.
type CreateTeamMemberRequest struct {
	Name        string             `json:"name" validate:"required,min=2"`
	Email       string             `json:"email" validate:"required,email"`
	Position    string             `json:"position" validate:"omitempty,oneof='President' 'Vice President Operations' 'Vice President Logistics' 'General Manager' 'General Secretary' 'Society Manager' 'Event Coordinator' 'Information Secretary' 'Member' 'Other'"`
	Image       *string            `json:"image"`
	Bio         string             `json:"bio"`
	Phone       *string            `json:"phone"`
	SocialLinks SocialLinksPayload `json:"socialLinks"`
	IsActive    *bool              `json:"isActive"`
}

// UpdateTeamMemberRequest carries only the fields to change.
type UpdateTeamMemberRequest struct {
	Name        *string             `json:"name" validate:"omitempty,min=2"`
	Email       *string             `json:"email" validate:"omitempty,email"`
	Position    *string             `json:"position" validate:"omitempty,oneof='President' 'Vice President Operations' 'Vice President Logistics' 'General Manager' 'General Secretary' 'Society Manager' 'Event Coordinator' 'Information Secretary' 'Member' 'Other'"`
	Image       *string             `json:"image"`
	Bio         *string             `json:"bio"`
	Phone       *string             `json:"phone"`
	SocialLinks *SocialLinksPayload `json:"socialLinks"`
	IsActive    *bool               `json:"isActive"`
}

// TeamMemberResponse is a public profile.
type TeamMemberResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Position    domain.Position    `json:"position"`
	Image       *string            `json:"image"`
	Bio         string             `json:"bio"`
	Phone       *string            `json:"phone"`
	SocialLinks SocialLinksPayload `json:"socialLinks"`
	IsActive    bool               `json:"isActive"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Links converts the payload to the domain form.
func (p SocialLinksPayload) Links() domain.SocialLinks {
	return domain.SocialLinks{LinkedIn: p.LinkedIn, GitHub: p.GitHub, Twitter: p.Twitter, Portfolio: p.Portfolio}
}

func NewTeamMemberResponse(m *domain.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Position: m.Position,
		Image:    m.Image,
		Bio:      m.Bio,
		Phone:    m.Phone,
		SocialLinks: SocialLinksPayload{
			LinkedIn:  m.SocialLinks.LinkedIn,
			GitHub:    m.SocialLinks.GitHub,
			Twitter:   m.SocialLinks.Twitter,
			Portfolio: m.SocialLinks.Portfolio,
		},
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func NewTeamMemberList(list []domain.TeamMember) []TeamMemberResponse {
	out := make([]TeamMemberResponse, 0, len(list))
	for i := range list {
		out = append(out, NewTeamMemberResponse(&list[i]))
	}
	return out
}
