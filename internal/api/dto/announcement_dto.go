package dto

import (
	"time"

	"github.com/spec-kit/society-api/internal/content"
	"github.com/spec-kit/society-api/internal/domain"
)

// CreateAnnouncementRequest payload.
type CreateAnnouncementRequest struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Content     string  `json:"content" validate:"required,min=10"`
	Category    string  `json:"category" validate:"omitempty,oneof=news update achievement urgent other"`
	Image       *string `json:"image"`
	IsPinned    bool    `json:"isPinned"`
	IsPublished *bool   `json:"isPublished"`
}

// UpdateAnnouncementRequest carries only the fields to change.
type UpdateAnnouncementRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Content     *string `json:"content" validate:"omitempty,min=10"`
	Category    *string `json:"category" validate:"omitempty,oneof=news update achievement urgent other"`
	Image       *string `json:"image"`
	IsPinned    *bool   `json:"isPinned"`
	IsPublished *bool   `json:"isPublished"`
}

// AnnouncementResponse includes the rendered markdown.
type AnnouncementResponse struct {
	ID          string                      `json:"id"`
	Title       string                      `json:"title"`
	Content     string                      `json:"content"`
	ContentHTML string                      `json:"contentHtml"`
	Category    domain.AnnouncementCategory `json:"category"`
	Image       *string                     `json:"image"`
	IsPinned    bool                        `json:"isPinned"`
	IsPublished bool                        `json:"isPublished"`
	CreatedBy   *UserRefResponse            `json:"createdBy"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func NewAnnouncementResponse(a *domain.Announcement) AnnouncementResponse {
	html, err := content.RenderMarkdown(a.Content)
	if err != nil {
		html = content.Sanitize(a.Content)
	}
	return AnnouncementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		ContentHTML: html,
		Category:    a.Category,
		Image:       a.Image,
		IsPinned:    a.IsPinned,
		IsPublished: a.IsPublished,
		CreatedBy:   userRef(a.CreatedBy),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func NewAnnouncementList(list []domain.Announcement) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(list))
	for i := range list {
		out = append(out, NewAnnouncementResponse(&list[i]))
	}
	return out
}
