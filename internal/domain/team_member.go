package domain

import "time"

// Position is a seat on the society's team.
type Position string

const (
	PositionPresident              Position = "President"
	PositionVicePresidentOperation Position = "Vice President Operations"
	PositionVicePresidentLogistics Position = "Vice President Logistics"
	PositionGeneralManager         Position = "General Manager"
	PositionGeneralSecretary       Position = "General Secretary"
	PositionSocietyManager         Position = "Society Manager"
	PositionEventCoordinator       Position = "Event Coordinator"
	PositionInformationSecretary   Position = "Information Secretary"
	PositionMember                 Position = "Member"
	PositionOther                  Position = "Other"
)

// SocialLinks holds optional profile links.
type SocialLinks struct {
	LinkedIn  *string
	GitHub    *string
	Twitter   *string
	Portfolio *string
}

// TeamMember is a public profile on the team page.
type TeamMember struct {
	ID          string
	Name        string
	Email       string
	Position    Position
	Image       *string
	Bio         string
	Phone       *string
	SocialLinks SocialLinks
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
