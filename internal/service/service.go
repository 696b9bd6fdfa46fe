package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/cache"
	"github.com/spec-kit/society-api/internal/events"
	"github.com/spec-kit/society-api/internal/repository"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

// Deps carries collaborators shared by every service.
type Deps struct {
	Dispatcher events.Dispatcher
	Cache      cache.ListCache
	Logger     *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// publish emits an event. Delivery problems never fail the request.
func (d Deps) publish(ctx context.Context, event events.Event) {
	if d.Dispatcher == nil {
		return
	}
	if err := d.Dispatcher.Publish(ctx, event); err != nil {
		d.Logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// cached loads a listing from the cache into dest. When it reports a miss, the
// returned fill stores the freshly loaded listing under the generation the miss
// was seen in.
func (d Deps) cached(ctx context.Context, collection, key string, dest any) (bool, func(value any)) {
	raw, gen, err := d.Cache.Get(ctx, collection, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			d.Logger.Warn("cache read failed", zap.String("collection", collection), zap.Error(err))
			return false, func(any) {}
		}
		return false, d.filler(ctx, collection, gen, key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		d.Logger.Warn("cache entry unreadable", zap.String("collection", collection), zap.Error(err))
		return false, d.filler(ctx, collection, gen, key)
	}
	return true, nil
}

func (d Deps) filler(ctx context.Context, collection string, gen cache.Generation, key string) func(value any) {
	return func(value any) {
		raw, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := d.Cache.Set(ctx, collection, gen, key, raw); err != nil {
			d.Logger.Warn("cache write failed", zap.String("collection", collection), zap.Error(err))
		}
	}
}

func (d Deps) invalidate(ctx context.Context, collection string) {
	if err := d.Cache.Invalidate(ctx, collection); err != nil {
		d.Logger.Warn("cache invalidation failed", zap.String("collection", collection), zap.Error(err))
	}
}

// checkID rejects path ids that are not UUIDs.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewInvalidID()
	}
	return nil
}

// notFound maps a missing row to a 404 for resource.
func notFound(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource)
	}
	return err
}

// duplicate maps a unique violation to a 400 conflict.
func duplicate(err error, message string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict(message, "email")
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// optional turns a blank string into nil.
func optional(s *string) *string {
	s = trimPtr(s)
	if s == nil || *s == "" {
		return nil
	}
	return s
}
