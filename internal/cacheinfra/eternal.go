package cacheinfra

import (
	"context"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// EternalBackend keeps entries until they are deleted explicitly. sturdyc
// always expires entries, so pure reference data lives in a concurrent map.
type EternalBackend struct {
	entries *xsync.MapOf[string, any]
}

// NewEternalBackend creates an empty eternal backend.
func NewEternalBackend() *EternalBackend {
	return &EternalBackend{entries: xsync.NewMapOf[string, any]()}
}

func (e *EternalBackend) Get(ctx context.Context, key string) (any, bool, error) {
	value, ok := e.entries.Load(key)
	return value, ok, nil
}

func (e *EternalBackend) Set(ctx context.Context, key string, value any) error {
	e.entries.Store(key, value)
	return nil
}

func (e *EternalBackend) Delete(ctx context.Context, key string) error {
	e.entries.Delete(key)
	return nil
}

func (e *EternalBackend) DeleteByPrefix(ctx context.Context, prefix string) error {
	prefix = strings.TrimSuffix(prefix, "*")

	e.entries.Range(func(key string, _ any) bool {
		if strings.HasPrefix(key, prefix) {
			e.entries.Delete(key)
		}
		return true
	})

	return nil
}

// Clear drops every entry.
func (e *EternalBackend) Clear() {
	e.entries.Clear()
}

// Size reports the number of stored entries.
func (e *EternalBackend) Size() int {
	return e.entries.Size()
}
