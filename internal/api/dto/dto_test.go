package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/society-api/internal/domain"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2026-03-01T18:30:00Z":      time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC),
		"2026-03-01T18:30:00+05:00": time.Date(2026, 3, 1, 13, 30, 0, 0, time.UTC),
		"2026-03-01T18:30":          time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC),
		"2026-03-01":                time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseDate(in)
		require.True(t, ok, in)
		assert.True(t, want.Equal(got), in)
	}

	_, ok := ParseDate("next friday")
	assert.False(t, ok)
}

func TestTeamMemberPositionValidation(t *testing.T) {
	ok := CreateTeamMemberRequest{Name: "Sara", Email: "sara@example.com", Position: "Vice President Operations"}
	assert.NoError(t, apperrors.ValidateStruct(ok))

	bad := ok
	bad.Position = "Treasurer"
	err := apperrors.ValidateStruct(bad)
	require.Error(t, err)
	fields := apperrors.ToDomainError(err).Details.([]apperrors.FieldError)
	require.Len(t, fields, 1)
	assert.Equal(t, "position", fields[0].Field)
	assert.Equal(t, "Invalid position", fields[0].Message)
}

func TestChangePasswordMismatch(t *testing.T) {
	err := apperrors.ValidateStruct(ChangePasswordRequest{OldPassword: "old-pass", NewPassword: "new-password", ConfirmPassword: "other-password"})
	require.Error(t, err)
	fields := apperrors.ToDomainError(err).Details.([]apperrors.FieldError)
	require.Len(t, fields, 1)
	assert.Equal(t, "Passwords do not match", fields[0].Message)
}

func TestAnnouncementResponseRendersMarkdown(t *testing.T) {
	resp := NewAnnouncementResponse(&domain.Announcement{
		ID:      "a1",
		Title:   "Hackathon",
		Content: "**Big** news <script>alert(1)</script>",
	})
	assert.Contains(t, resp.ContentHTML, "<strong>Big</strong>")
	assert.NotContains(t, resp.ContentHTML, "<script>")
	assert.Nil(t, resp.CreatedBy)
}

func TestEventResponseKeepsRegistrations(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	resp := NewEventResponse(&domain.Event{
		ID:                "e1",
		RegistrationCount: 1,
		Registrations:     []domain.EventRegistration{{EventID: "e1", User: domain.UserRef{ID: "u1", FullName: "Ada", Email: "ada@example.com"}, RegisteredAt: at}},
	})
	require.Len(t, resp.Registrations, 1)
	assert.Equal(t, "Ada", resp.Registrations[0].User.FullName)
	assert.Equal(t, at, resp.Registrations[0].RegisteredAt)
}
