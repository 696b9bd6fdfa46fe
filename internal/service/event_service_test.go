package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/events"
	"github.com/spec-kit/society-api/internal/repository"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

func (e *testEnv) event(t *testing.T, admin *domain.User, max *int) *domain.Event {
	t.Helper()
	ev, err := e.events.Create(context.Background(), admin, EventInput{
		Title:           "Intro to Go",
		Description:     "A <b>hands-on</b> session<script>alert(1)</script>",
		Date:            time.Now().Add(48 * time.Hour),
		Location:        "Main Hall",
		MaxParticipants: max,
	})
	require.NoError(t, err)
	return ev
}

func TestEvents_CreateDefaultsAndSanitizes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	ev := env.event(t, admin, nil)

	assert.Equal(t, domain.EventCategoryWorkshop, ev.Category)
	assert.Equal(t, domain.EventStatusUpcoming, ev.Status)
	assert.Equal(t, "A <b>hands-on</b> session", ev.Description)
	require.NotNil(t, ev.CreatedBy)
	assert.Equal(t, "Admin", ev.CreatedBy.FullName)
}

func TestEvents_ConcurrentRegistrationSingleSeat(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	ev := env.event(t, admin, intPtr(1))

	const callers = 10
	users := make([]*domain.User, callers)
	for i := range users {
		users[i] = env.member(t, "member"+string(rune('a'+i))+"@example.com")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, full int
	)
	for _, u := range users {
		wg.Add(1)
		go func(u *domain.User) {
			defer wg.Done()
			_, err := env.events.Register(context.Background(), ev.ID, u)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperrors.ErrCapacityExceeded):
				full++
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, full)
	got, err := env.events.Get(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RegistrationCount)
}

func TestEvents_RegisterRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	ev := env.event(t, admin, nil)
	ada := env.member(t, "ada@example.com")

	got, err := env.events.Register(ctx, ev.ID, ada)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RegistrationCount)
	require.Len(t, got.Registrations, 1)
	assert.Equal(t, ada.Email, got.Registrations[0].User.Email)

	_, err = env.events.Register(ctx, ev.ID, ada)
	requireCode(t, err, apperrors.CodeAlreadyRegistered, http.StatusBadRequest)

	mine, err := env.events.MyEvents(ctx, ada.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	got, err = env.events.Unregister(ctx, ev.ID, ada)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RegistrationCount)

	_, err = env.events.Unregister(ctx, ev.ID, ada)
	requireCode(t, err, apperrors.CodeNotRegistered, http.StatusBadRequest)

	assert.Equal(t, []events.EventType{events.EventUserRegistered, events.EventSeatBooked, events.EventSeatReleased}, env.published.types())
}

func TestEvents_RegisterClosedEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	ev := env.event(t, admin, nil)
	cancelled := domain.EventStatusCancelled
	_, err := env.events.Update(ctx, ev.ID, EventPatch{Status: &cancelled})
	require.NoError(t, err)

	_, err = env.events.Register(ctx, ev.ID, env.member(t, "ada@example.com"))
	requireCode(t, err, apperrors.CodeEventClosed, http.StatusBadRequest)
}

func TestEvents_RegisterMissingEvent(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.events.Register(context.Background(), "5f0c7e0e-8f3a-4b7e-9a51-2a3c1f1d9b11", env.member(t, "ada@example.com"))
	requireCode(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}

func TestEvents_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	ev := env.event(t, admin, intPtr(30))

	updated, err := env.events.Update(ctx, ev.ID, EventPatch{Location: strPtr("Room 101")})
	require.NoError(t, err)

	assert.Equal(t, "Room 101", updated.Location)
	assert.Equal(t, ev.Title, updated.Title)
	assert.Equal(t, ev.Description, updated.Description)
	assert.Equal(t, ev.Date, updated.Date)
	assert.Equal(t, ev.MaxParticipants, updated.MaxParticipants)
	assert.True(t, updated.UpdatedAt.After(ev.UpdatedAt))
	assert.Equal(t, ev.CreatedAt, updated.CreatedAt)
}

func TestEvents_UpdateCapacityBelowCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	ev := env.event(t, admin, nil)
	_, err := env.events.Register(ctx, ev.ID, env.member(t, "a@example.com"))
	require.NoError(t, err)
	_, err = env.events.Register(ctx, ev.ID, env.member(t, "b@example.com"))
	require.NoError(t, err)

	_, err = env.events.Update(ctx, ev.ID, EventPatch{MaxParticipants: intPtr(1)})
	requireCode(t, err, apperrors.CodeValidation, http.StatusBadRequest)
}

func TestEvents_DeleteAndMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ev := env.event(t, env.admin(t), nil)

	require.NoError(t, env.events.Delete(ctx, ev.ID))
	requireCode(t, env.events.Delete(ctx, ev.ID), apperrors.CodeNotFound, http.StatusNotFound)
	requireCode(t, env.events.Delete(ctx, "123"), apperrors.CodeValidation, http.StatusBadRequest)
}

func TestEvents_ListOrderAndFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	later, err := env.events.Create(ctx, admin, EventInput{Title: "Later", Description: "Later description", Date: time.Now().Add(72 * time.Hour), Location: "Hall", Category: domain.EventCategorySeminar})
	require.NoError(t, err)
	sooner, err := env.events.Create(ctx, admin, EventInput{Title: "Sooner", Description: "Sooner description", Date: time.Now().Add(24 * time.Hour), Location: "Hall"})
	require.NoError(t, err)

	all, err := env.events.List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, sooner.ID, all[0].ID)
	assert.Equal(t, later.ID, all[1].ID)

	seminar := domain.EventCategorySeminar
	only, err := env.events.List(ctx, repository.EventFilter{Category: &seminar})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, later.ID, only[0].ID)
}

func TestEvents_QRCode(t *testing.T) {
	env := newTestEnv(t)
	ev := env.event(t, env.admin(t), nil)

	png, err := env.events.QRCode(context.Background(), ev.ID, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	assert.Equal(t, "https://society.example.org/events/"+ev.ID, env.events.EventURL(ev.ID))
}

func TestEvents_DeletingUserReleasesSeat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ev := env.event(t, env.admin(t), intPtr(1))
	ada := env.member(t, "ada@example.com")
	_, err := env.events.Register(ctx, ev.ID, ada)
	require.NoError(t, err)

	require.NoError(t, env.users.DeleteAccount(ctx, ada.ID))

	_, err = env.events.Register(ctx, ev.ID, env.member(t, "bob@example.com"))
	assert.NoError(t, err)
}

func TestEvents_DescriptionLengthCountsSanitizedText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)

	_, err := env.events.Create(ctx, admin, EventInput{
		Title:       "Scripted",
		Description: "<script>alert('a long payload')</script>ab",
		Date:        time.Now().Add(24 * time.Hour),
		Location:    "Hall",
	})
	requireCode(t, err, apperrors.CodeValidation, http.StatusBadRequest)

	ev := env.event(t, admin, nil)
	_, err = env.events.Update(ctx, ev.ID, EventPatch{Description: strPtr("<iframe src=x></iframe>  short ")})
	requireCode(t, err, apperrors.CodeValidation, http.StatusBadRequest)

	got, err := env.events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev.Description, got.Description)
}
