// Package validate provides the fluent validation chain that guards every
// service method.
//
// Immediate checks run as they are attached and accumulate in order. Deferred
// checks (database lookups such as existence or uniqueness) are queued and run
// at the terminal call, only when every immediate check passed. A terminal
// converts the chain into a result.Result exactly once.
//
//	return validate.For[Equipment]().
//		EnsureNotWhiteSpace(cmd.Name, "Equipment name is required").
//		EnsureMaxLength(cmd.Name, 100, "Equipment name cannot exceed 100 characters").
//		EnsureUnique(s.nameIsFree(cmd.Name), "Equipment", cmd.Name).
//		MatchAsync(ctx, func(ctx context.Context) result.Result[Equipment] {
//			return s.store.Create(ctx, cmd)
//		})
package validate

import (
	"context"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/getfitter/go-service-core/empty"
	"github.com/getfitter/go-service-core/result"
	"github.com/getfitter/go-service-core/serviceerr"
)

// Check is a deferred predicate. It returns true when the condition holds.
// A non-nil error means the check itself could not run.
type Check func(ctx context.Context) (bool, error)

type deferredCheck struct {
	check Check
	err   *serviceerr.Error
}

// Chain accumulates validation outcomes for an operation producing T.
type Chain[T any] struct {
	errs     []*serviceerr.Error
	deferred []deferredCheck
	consumed bool
}

// For starts a chain guarding a service operation.
func For[T any]() *Chain[T] {
	return &Chain[T]{}
}

// Entity starts a chain guarding the construction of an entity, usually
// finished with OnSuccess.
func Entity[T any]() *Chain[T] {
	return &Chain[T]{}
}

// HasErrors reports whether any immediate check failed so far.
func (c *Chain[T]) HasErrors() bool {
	return len(c.errs) > 0
}

// Errors returns a copy of the immediate errors collected so far.
func (c *Chain[T]) Errors() []*serviceerr.Error {
	out := make([]*serviceerr.Error, len(c.errs))
	copy(out, c.errs)
	return out
}

func (c *Chain[T]) add(err *serviceerr.Error) *Chain[T] {
	c.mustBeOpen()
	c.errs = append(c.errs, err)
	return c
}

func (c *Chain[T]) mustBeOpen() {
	if c.consumed {
		panic("validate: chain reused after its terminal call")
	}
}

// Ensure records ValidationInvalid when pred is false.
func (c *Chain[T]) Ensure(pred func() bool, message string) *Chain[T] {
	c.mustBeOpen()
	if !pred() {
		return c.add(serviceerr.Invalid(message))
	}
	return c
}

// EnsureError records err when pred is false.
func (c *Chain[T]) EnsureError(pred func() bool, err *serviceerr.Error) *Chain[T] {
	c.mustBeOpen()
	if !pred() {
		return c.add(err)
	}
	return c
}

// EnsureNotEmpty records ValidationRequired when v is nil or an Empty sentinel.
func (c *Chain[T]) EnsureNotEmpty(v empty.Emptier, message string) *Chain[T] {
	c.mustBeOpen()
	if empty.Is(v) {
		return c.add(serviceerr.Required("", message))
	}
	return c
}

// EnsureNotWhiteSpace records ValidationRequired for blank strings.
func (c *Chain[T]) EnsureNotWhiteSpace(value, message string) *Chain[T] {
	c.mustBeOpen()
	if strings.TrimSpace(value) == "" {
		return c.add(serviceerr.Required("", message))
	}
	return c
}

// EnsureNonEmptyString records ValidationRequired for "" only; whitespace passes.
func (c *Chain[T]) EnsureNonEmptyString(value, message string) *Chain[T] {
	c.mustBeOpen()
	if value == "" {
		return c.add(serviceerr.Required("", message))
	}
	return c
}

// EnsureRange records ValidationOutOfRange unless min <= value <= max.
func (c *Chain[T]) EnsureRange(value, min, max int, message string) *Chain[T] {
	c.mustBeOpen()
	if value < min || value > max {
		return c.add(serviceerr.OutOfRange("", min, max, message))
	}
	return c
}

// EnsureMinValue records ValidationOutOfRange when value < min.
func (c *Chain[T]) EnsureMinValue(value, min int, message string) *Chain[T] {
	c.mustBeOpen()
	if value < min {
		return c.add(serviceerr.New(serviceerr.CodeValidationOutOfRange, message).WithDetail("min", min))
	}
	return c
}

// EnsureMaxValue records ValidationOutOfRange when value > max.
func (c *Chain[T]) EnsureMaxValue(value, max int, message string) *Chain[T] {
	c.mustBeOpen()
	if value > max {
		return c.add(serviceerr.New(serviceerr.CodeValidationOutOfRange, message).WithDetail("max", max))
	}
	return c
}

// EnsureMaxLength records ValidationInvalid when value has more than max runes.
func (c *Chain[T]) EnsureMaxLength(value string, max int, message string) *Chain[T] {
	c.mustBeOpen()
	if utf8.RuneCountInString(value) > max {
		return c.add(serviceerr.Invalid(message).WithDetail("max_length", max))
	}
	return c
}

// EnsureMinLength records ValidationInvalid when value has fewer than min runes.
func (c *Chain[T]) EnsureMinLength(value string, min int, message string) *Chain[T] {
	c.mustBeOpen()
	if utf8.RuneCountInString(value) < min {
		return c.add(serviceerr.Invalid(message).WithDetail("min_length", min))
	}
	return c
}

// EnsureRules runs ozzo-validation rules against value and records
// ValidationInvalid on the first violation.
func (c *Chain[T]) EnsureRules(value any, message string, rules ...validation.Rule) *Chain[T] {
	c.mustBeOpen()
	if err := validation.Validate(value, rules...); err != nil {
		return c.add(serviceerr.Invalid(message).WithDetail("rule", err.Error()))
	}
	return c
}

// EnsureParsed records ValidationInvalid when a parse step failed.
func (c *Chain[T]) EnsureParsed(parseErr error, message string) *Chain[T] {
	c.mustBeOpen()
	if parseErr != nil {
		return c.add(serviceerr.Invalid(message).WithCause(parseErr))
	}
	return c
}

// Then runs fn only if no immediate check has failed yet. It is used for
// checks that would be meaningless on an already-invalid input.
func (c *Chain[T]) Then(fn func(c *Chain[T])) *Chain[T] {
	c.mustBeOpen()
	if !c.HasErrors() {
		fn(c)
	}
	return c
}

// EnsureAsync queues a deferred check that records err when it reports false.
func (c *Chain[T]) EnsureAsync(check Check, err *serviceerr.Error) *Chain[T] {
	c.mustBeOpen()
	c.deferred = append(c.deferred, deferredCheck{check: check, err: err})
	return c
}

// EnsureExists queues a deferred existence check reporting NotFound.
func (c *Chain[T]) EnsureExists(check Check, entity, id string) *Chain[T] {
	return c.EnsureAsync(check, serviceerr.NotFound(entity, id))
}

// EnsureUnique queues a deferred uniqueness check reporting DuplicateName.
// check returns true when name is unique.
func (c *Chain[T]) EnsureUnique(check Check, entity, name string) *Chain[T] {
	return c.EnsureAsync(check, serviceerr.DuplicateName(entity, name))
}

// run consumes the chain and returns every error it produced.
func (c *Chain[T]) run(ctx context.Context) []*serviceerr.Error {
	c.mustBeOpen()
	c.consumed = true

	if len(c.errs) > 0 {
		return c.errs
	}

	var errs []*serviceerr.Error
	for _, d := range c.deferred {
		ok, err := d.check(ctx)
		if err != nil {
			errs = append(errs, serviceerr.DependencyFailure("validation check failed", err))
			break
		}
		if !ok {
			errs = append(errs, d.err)
		}
	}
	return errs
}

// MatchAsync runs the deferred checks and, when everything passed, returns
// whenValid's result unchanged. Otherwise it returns a failure with every
// collected error and whenValid is never called.
func (c *Chain[T]) MatchAsync(ctx context.Context, whenValid func(ctx context.Context) result.Result[T]) result.Result[T] {
	if errs := c.run(ctx); len(errs) > 0 {
		return result.Failure[T](errs...)
	}
	return whenValid(ctx)
}

// Match is MatchAsync with a caller-supplied failure branch.
func (c *Chain[T]) Match(
	ctx context.Context,
	whenValid func(ctx context.Context) result.Result[T],
	whenInvalid func(errs []*serviceerr.Error) result.Result[T],
) result.Result[T] {
	if errs := c.run(ctx); len(errs) > 0 {
		return whenInvalid(errs)
	}
	return whenValid(ctx)
}

// OnSuccess finishes an entity chain synchronously. Deferred checks cannot
// run here; their presence is reported as Internal.
func (c *Chain[T]) OnSuccess(factory func() T) result.Result[T] {
	if len(c.deferred) > 0 {
		c.mustBeOpen()
		c.consumed = true
		return result.Failure[T](serviceerr.Internal("deferred checks require MatchAsync"))
	}
	if errs := c.run(context.Background()); len(errs) > 0 {
		return result.Failure[T](errs...)
	}
	return result.Success(factory())
}

// ToResult consumes the chain into a value-less result, for composing chains.
func (c *Chain[T]) ToResult(ctx context.Context) result.Result[struct{}] {
	if errs := c.run(ctx); len(errs) > 0 {
		return result.Failure[struct{}](errs...)
	}
	return result.Success(struct{}{})
}

// Validate consumes the chain into a plain Go error for non-Result callers.
func (c *Chain[T]) Validate(ctx context.Context) error {
	return c.ToResult(ctx).Err()
}
