package domain

import "time"

// AnnouncementCategory classifies announcements.
type AnnouncementCategory string

const (
	AnnouncementCategoryNews        AnnouncementCategory = "news"
	AnnouncementCategoryUpdate      AnnouncementCategory = "update"
	AnnouncementCategoryAchievement AnnouncementCategory = "achievement"
	AnnouncementCategoryUrgent      AnnouncementCategory = "urgent"
	AnnouncementCategoryOther       AnnouncementCategory = "other"
)

// Announcement is a news item shown on the public site.
type Announcement struct {
	ID          string
	Title       string
	Content     string
	Category    AnnouncementCategory
	Image       *string
	IsPinned    bool
	IsPublished bool
	CreatedBy   *UserRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
