// Package result carries the outcome of every service method.
//
// A Result is either a success holding a value or a failure holding one or
// more coded errors. Expected business conditions (validation, not found,
// conflicts) travel inside a Result; Go errors are reserved for infrastructure
// constructors.
//
//	r := svc.GetByID(ctx, id)
//	return result.Match(r,
//		func(v refdata.ReferenceData) Response { return ok(v) },
//		func(errs []*serviceerr.Error) Response { return fail(errs) },
//	)
package result

import (
	"errors"

	"github.com/getfitter/go-service-core/empty"
	"github.com/getfitter/go-service-core/serviceerr"
)

// Result is the outcome of an operation. The zero value is not a valid
// Result; use Success or Failure.
type Result[T any] struct {
	value  T
	errors []*serviceerr.Error
}

// Success wraps v in a successful result.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure builds a failed result. The value is the Empty sentinel for T when
// T follows the Empty convention, otherwise the zero value. A failure without
// errors is a programming error and is reported as Internal.
func Failure[T any](errs ...*serviceerr.Error) Result[T] {
	return FailureWith(empty.Of[T](), errs...)
}

// FailureWith builds a failed result carrying an explicit value.
func FailureWith[T any](v T, errs ...*serviceerr.Error) Result[T] {
	kept := make([]*serviceerr.Error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, serviceerr.Internal("failure without error"))
	}
	return Result[T]{value: v, errors: kept}
}

// FromError wraps a raw Go error. Service errors keep their code; anything
// else becomes DependencyFailure. A nil error yields Success(v).
func FromError[T any](v T, err error) Result[T] {
	if err == nil {
		return Success(v)
	}
	return Failure[T](serviceerr.From(err))
}

// IsSuccess reports whether the result carries no errors.
func (r Result[T]) IsSuccess() bool {
	return len(r.errors) == 0
}

// IsFailure is the negation of IsSuccess.
func (r Result[T]) IsFailure() bool {
	return !r.IsSuccess()
}

// Value returns the carried value. For failures it is the Empty sentinel.
func (r Result[T]) Value() T {
	return r.value
}

// Errors returns a copy of the error list.
func (r Result[T]) Errors() []*serviceerr.Error {
	if len(r.errors) == 0 {
		return nil
	}
	out := make([]*serviceerr.Error, len(r.errors))
	copy(out, r.errors)
	return out
}

// FirstError returns the first error, or nil for a success.
func (r Result[T]) FirstError() *serviceerr.Error {
	if len(r.errors) == 0 {
		return nil
	}
	return r.errors[0]
}

// HasCode reports whether any error carries code.
func (r Result[T]) HasCode(code serviceerr.Code) bool {
	for _, err := range r.errors {
		if err.Code == code {
			return true
		}
	}
	return false
}

// IsEmptySuccess reports a success whose value is the Empty sentinel.
func (r Result[T]) IsEmptySuccess() bool {
	return r.IsSuccess() && empty.Is(r.value)
}

// Err joins the errors into a single Go error, or nil for a success.
func (r Result[T]) Err() error {
	switch len(r.errors) {
	case 0:
		return nil
	case 1:
		return r.errors[0]
	}
	errs := make([]error, len(r.errors))
	for i, err := range r.errors {
		errs[i] = err
	}
	return errors.Join(errs...)
}

// Unwrap returns the value and the joined error.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.Err()
}

// Match dispatches to exactly one of the handlers.
func Match[T, R any](r Result[T], onSuccess func(T) R, onFailure func([]*serviceerr.Error) R) R {
	if r.IsSuccess() {
		return onSuccess(r.value)
	}
	return onFailure(r.Errors())
}

// Map transforms a successful value. Failures pass through with their errors.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.IsFailure() {
		return Failure[U](r.errors...)
	}
	return Success(fn(r.value))
}

// Bind chains an operation that itself returns a Result.
func Bind[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.IsFailure() {
		return Failure[U](r.errors...)
	}
	return fn(r.value)
}
