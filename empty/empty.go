// Package empty implements the sentinel convention for "no such entity".
//
// Data services never return nil for a missing entity. They return the type's
// Empty value inside a successful result and let the outermost service method
// decide whether absence is an error (see result.NotFoundIfEmpty).
package empty

import "reflect"

// Emptier is implemented by every value that has an Empty sentinel.
type Emptier interface {
	IsEmpty() bool
}

// Entity is implemented by value types that can produce their own sentinel.
// Empty is called on the zero value, so it must not depend on receiver state.
type Entity[T any] interface {
	Emptier
	Empty() T
}

// Of returns the canonical Empty for T. Types that do not implement Entity[T]
// get their zero value.
func Of[T any]() T {
	var zero T
	if e, ok := any(zero).(Entity[T]); ok {
		return e.Empty()
	}
	return zero
}

// Is reports whether v is an Empty sentinel. Emptier values are asked directly;
// slices, maps and nil pointers are empty when they hold nothing. Comparison is
// always by flag, never by identity.
func Is(v any) bool {
	if v == nil {
		return true
	}
	if e, ok := v.(Emptier); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return true
		}
		return e.IsEmpty()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
