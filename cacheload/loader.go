// Package cacheload implements cache-aside loading on top of a cache.Backend.
//
//	r := cacheload.For[[]ReferenceData](backend, keys.All()).
//		WithLogging(logger, "BodyPart").
//		WithAutoCache(ctx, func(ctx context.Context) result.Result[[]ReferenceData] {
//			return data.GetAllActive(ctx)
//		})
//
// Only non-empty successes are stored. Failures and Empty results always go
// back to the loader on the next call. Values are copied on the way in and on
// the way out, so mutating a returned slice never changes the cached entry.
package cacheload

import (
	"context"

	"go.uber.org/zap"

	"github.com/getfitter/go-service-core/cache"
	"github.com/getfitter/go-service-core/empty"
	"github.com/getfitter/go-service-core/result"
)

// Loader is a single cache-aside read bound to one key.
type Loader[T any] struct {
	backend cache.Backend
	key     string
	logger  *zap.Logger
	label   string
}

// For binds a loader to backend and key.
func For[T any](backend cache.Backend, key string) *Loader[T] {
	return &Loader[T]{
		backend: backend,
		key:     key,
		logger:  zap.NewNop(),
	}
}

// WithLogging enables debug logs for hit, miss and store events. It does not
// change behavior.
func (l *Loader[T]) WithLogging(logger *zap.Logger, label string) *Loader[T] {
	if logger != nil {
		l.logger = logger
	}
	l.label = label
	return l
}

// lookup treats backend errors and type mismatches as misses. Hits are
// returned as copies.
func (l *Loader[T]) lookup(ctx context.Context) (T, bool) {
	value, ok, err := cache.Get[T](ctx, l.backend, l.key)
	if err != nil {
		l.logger.Warn("cache lookup failed, treating as miss",
			zap.String("entity", l.label),
			zap.String("key", l.key),
			zap.Error(err),
		)
		return value, false
	}
	if !ok {
		l.logger.Debug("cache miss", zap.String("entity", l.label), zap.String("key", l.key))
		return value, false
	}
	l.logger.Debug("cache hit", zap.String("entity", l.label), zap.String("key", l.key))
	return clone(value), true
}

// WithAutoCache returns the cached value on a hit without calling loader. On a
// miss it calls loader once and stores the value when the result is a
// non-empty success. The loader's result is returned unchanged either way; a
// failed store is logged and never turns a success into a failure.
func (l *Loader[T]) WithAutoCache(ctx context.Context, loader func(ctx context.Context) result.Result[T]) result.Result[T] {
	if cached, ok := l.lookup(ctx); ok {
		return result.Success(cached)
	}

	r := loader(ctx)

	if r.IsFailure() {
		l.logger.Debug("loader failed, not caching",
			zap.String("entity", l.label),
			zap.String("key", l.key),
			zap.Int("errors", len(r.Errors())),
		)
		return r
	}

	if empty.Is(r.Value()) {
		l.logger.Debug("loader returned empty, not caching",
			zap.String("entity", l.label),
			zap.String("key", l.key),
		)
		return r
	}

	if err := l.backend.Set(ctx, l.key, clone(r.Value())); err != nil {
		l.logger.Warn("cache store failed",
			zap.String("entity", l.label),
			zap.String("key", l.key),
			zap.Error(err),
		)
		return r
	}

	l.logger.Debug("cached value", zap.String("entity", l.label), zap.String("key", l.key))
	return r
}

// Match dispatches explicitly on hit or miss. Nothing is stored; callers that
// want storage use WithAutoCache.
func (l *Loader[T]) Match(
	ctx context.Context,
	onHit func(cached T) result.Result[T],
	onMiss func(ctx context.Context) result.Result[T],
) result.Result[T] {
	if cached, ok := l.lookup(ctx); ok {
		return onHit(cached)
	}
	return onMiss(ctx)
}
