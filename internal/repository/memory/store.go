// Package memory holds in-process repository implementations used for local
// demos and tests. All repositories built from one Store share a single lock so
// cross-entity rules (seat release on user delete) stay consistent.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/society-api/internal/domain"
)

// Store is the shared backing state.
type Store struct {
	mu   sync.Mutex
	last time.Time

	users         map[string]domain.User
	events        map[string]domain.Event
	announcements map[string]domain.Announcement
	members       map[string]domain.TeamMember
	registrations map[string]domain.Registration
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]domain.User),
		events:        make(map[string]domain.Event),
		announcements: make(map[string]domain.Announcement),
		members:       make(map[string]domain.TeamMember),
		registrations: make(map[string]domain.Registration),
	}
}

// Users returns the user repository view.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Events returns the event repository view.
func (s *Store) Events() *EventRepository { return &EventRepository{s: s} }

// Announcements returns the announcement repository view.
func (s *Store) Announcements() *AnnouncementRepository { return &AnnouncementRepository{s: s} }

// TeamMembers returns the team member repository view.
func (s *Store) TeamMembers() *TeamMemberRepository { return &TeamMemberRepository{s: s} }

// Registrations returns the membership inquiry repository view.
func (s *Store) Registrations() *RegistrationRepository { return &RegistrationRepository{s: s} }

// tick returns a strictly increasing timestamp. Caller holds mu.
func (s *Store) tick() time.Time {
	now := time.Now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

func newID() string {
	return uuid.NewString()
}

// ref resolves a creator reference against current users. Caller holds mu.
func (s *Store) ref(r *domain.UserRef) *domain.UserRef {
	if r == nil {
		return nil
	}
	u, ok := s.users[r.ID]
	if !ok {
		return nil
	}
	return &domain.UserRef{ID: u.ID, FullName: u.FullName, Email: u.Email}
}
