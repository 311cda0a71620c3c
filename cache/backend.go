package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidResultType is returned by Get when the cached value does not have
// the requested type.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// Backend is the store the cache-aside orchestrator reads from and writes to.
// Implementations must be safe for concurrent use. Get reports a miss with
// ok == false and a nil error; an error means the lookup itself failed.
type Backend interface {
	Get(ctx context.Context, key string) (any, bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix removes every key starting with prefix. A trailing "*"
	// is accepted and ignored.
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Get is a type-safe wrapper around Backend.Get.
func Get[T any](ctx context.Context, backend Backend, key string) (T, bool, error) {
	var zero T

	raw, ok, err := backend.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	typed, ok := raw.(T)
	if !ok {
		return zero, false, fmt.Errorf("%w: key %q holds %T, want %T", ErrInvalidResultType, key, raw, zero)
	}
	return typed, true, nil
}
