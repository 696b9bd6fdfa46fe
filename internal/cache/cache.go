// Package cache stores rendered public listings keyed by collection generation.
package cache

import (
	"context"
	"errors"
)

// Collections with cached public listings.
const (
	CollectionEvents        = "events"
	CollectionAnnouncements = "announcements"
	CollectionTeamMembers   = "team_members"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Generation is one version of a collection. Invalidate moves a collection to
// a new generation; entries stored under an older one are never served.
type Generation int64

// ListCache caches listing payloads. Get reports the generation it looked in,
// also on a miss, and Set must be given that generation so a listing read
// before an Invalidate cannot land in the generation that follows it.
type ListCache interface {
	Get(ctx context.Context, collection, key string) ([]byte, Generation, error)
	Set(ctx context.Context, collection string, gen Generation, key string, value []byte) error
	Invalidate(ctx context.Context, collection string) error
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, string) ([]byte, Generation, error) { return nil, 0, ErrMiss }

func (Noop) Set(context.Context, string, Generation, string, []byte) error { return nil }

func (Noop) Invalidate(context.Context, string) error { return nil }
