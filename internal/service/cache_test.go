package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/society-api/internal/cache"
	"github.com/spec-kit/society-api/internal/repository"
)

// mapCache keeps generations the way RedisListCache does, in process.
type mapCache struct {
	mu        sync.Mutex
	gens      map[string]cache.Generation
	entries   map[string][]byte
	beforeSet func()
}

func newMapCache() *mapCache {
	return &mapCache{gens: map[string]cache.Generation{}, entries: map[string][]byte{}}
}

func (m *mapCache) Get(_ context.Context, collection, key string) ([]byte, cache.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gen := m.gens[collection]
	raw, ok := m.entries[fmt.Sprintf("%s:%d:%s", collection, gen, key)]
	if !ok {
		return nil, gen, cache.ErrMiss
	}
	return raw, gen, nil
}

func (m *mapCache) Set(_ context.Context, collection string, gen cache.Generation, key string, value []byte) error {
	m.mu.Lock()
	hook := m.beforeSet
	m.beforeSet = nil
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[fmt.Sprintf("%s:%d:%s", collection, gen, key)] = value
	return nil
}

func (m *mapCache) Invalidate(_ context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[collection]++
	return nil
}

func TestCache_ListingLoadedBeforeUnpublishIsNotServed(t *testing.T) {
	lc := newMapCache()
	env := newCachedTestEnv(t, lc)
	ctx := context.Background()
	admin := env.admin(t)

	a, err := env.announcements.Create(ctx, admin, AnnouncementInput{Title: "Draft soon", Content: "Published for a moment"})
	require.NoError(t, err)

	// The admin unpublishes after the guest loaded the feed but before it was cached.
	lc.beforeSet = func() {
		_, err := env.announcements.TogglePublish(ctx, admin, a.ID)
		require.NoError(t, err)
	}
	first, err := env.announcements.List(ctx, nil, repository.AnnouncementFilter{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := env.announcements.List(ctx, nil, repository.AnnouncementFilter{})
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestCache_ProfileChangeRefreshesEmbeddedNames(t *testing.T) {
	env := newCachedTestEnv(t, newMapCache())
	ctx := context.Background()
	admin := env.admin(t)
	ada := env.member(t, "ada@example.com")

	ev, err := env.events.Create(ctx, admin, EventInput{Title: "Meetup", Description: "Monthly community meetup", Date: time.Now().Add(24 * time.Hour), Location: "Hall"})
	require.NoError(t, err)
	_, err = env.events.Register(ctx, ev.ID, ada)
	require.NoError(t, err)
	_, err = env.announcements.Create(ctx, ada, AnnouncementInput{Title: "Hello all", Content: "First post from a member"})
	require.NoError(t, err)

	// Warm both listings.
	list, err := env.events.List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	require.Len(t, list[0].Registrations, 1)
	assert.Equal(t, "Member", list[0].Registrations[0].User.FullName)
	feed, err := env.announcements.List(ctx, nil, repository.AnnouncementFilter{})
	require.NoError(t, err)
	require.NotNil(t, feed[0].CreatedBy)
	assert.Equal(t, "Member", feed[0].CreatedBy.FullName)

	_, err = env.users.UpdateProfile(ctx, ada.ID, ProfileInput{FullName: strPtr("Ada Lovelace")})
	require.NoError(t, err)

	list, err = env.events.List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", list[0].Registrations[0].User.FullName)
	feed, err = env.announcements.List(ctx, nil, repository.AnnouncementFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", feed[0].CreatedBy.FullName)

	require.NoError(t, env.users.DeleteAccount(ctx, ada.ID))
	list, err = env.events.List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, list[0].RegistrationCount)
	feed, err = env.announcements.List(ctx, nil, repository.AnnouncementFilter{})
	require.NoError(t, err)
	assert.Nil(t, feed[0].CreatedBy)
}
