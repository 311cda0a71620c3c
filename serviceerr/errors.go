package serviceerr

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies a service-level failure. The set is closed: transport layers
// switch on it to pick a response status.
type Code string

const (
	CodeValidationRequired      Code = "VALIDATION_REQUIRED"
	CodeValidationInvalid       Code = "VALIDATION_INVALID"
	CodeValidationOutOfRange    Code = "VALIDATION_OUT_OF_RANGE"
	CodeNotFound                Code = "NOT_FOUND"
	CodeConflict                Code = "CONFLICT"
	CodeDuplicateName           Code = "DUPLICATE_NAME"
	CodeInvalidStateTransition  Code = "INVALID_STATE_TRANSITION"
	CodeInsufficientPermissions Code = "INSUFFICIENT_PERMISSIONS"
	CodeDependencyFailure       Code = "DEPENDENCY_FAILURE"
	CodeInternal                Code = "INTERNAL"
)

// Sentinels for errors.Is checks. Matching is by code only.
var (
	ErrValidationRequired      = &Error{Code: CodeValidationRequired}
	ErrValidationInvalid       = &Error{Code: CodeValidationInvalid}
	ErrValidationOutOfRange    = &Error{Code: CodeValidationOutOfRange}
	ErrNotFound                = &Error{Code: CodeNotFound}
	ErrConflict                = &Error{Code: CodeConflict}
	ErrDuplicateName           = &Error{Code: CodeDuplicateName}
	ErrInvalidStateTransition  = &Error{Code: CodeInvalidStateTransition}
	ErrInsufficientPermissions = &Error{Code: CodeInsufficientPermissions}
	ErrDependencyFailure       = &Error{Code: CodeDependencyFailure}
	ErrInternal                = &Error{Code: CodeInternal}
)

// IsValidation reports whether the code belongs to the validation family.
func (c Code) IsValidation() bool {
	switch c {
	case CodeValidationRequired, CodeValidationInvalid, CodeValidationOutOfRange:
		return true
	default:
		return false
	}
}

// Error is a coded, parameterized service failure.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the lower-layer error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another *Error by code so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail returns a copy of the error with key set in Details.
func (e *Error) WithDetail(key string, value any) *Error {
	out := e.clone()
	if out.Details == nil {
		out.Details = make(map[string]any, 1)
	}
	out.Details[key] = value
	return out
}

// WithCause returns a copy of the error wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	out := e.clone()
	out.cause = cause
	return out
}

func (e *Error) clone() *Error {
	out := &Error{Code: e.Code, Message: e.Message, cause: e.cause}
	if len(e.Details) > 0 {
		out.Details = make(map[string]any, len(e.Details)+1)
		for k, v := range e.Details {
			out.Details[k] = v
		}
	}
	return out
}

// Required reports a missing mandatory field.
func Required(field, message string) *Error {
	err := New(CodeValidationRequired, message)
	if field != "" {
		err = err.WithDetail("field", field)
	}
	return err
}

// Invalid reports a malformed value.
func Invalid(message string) *Error {
	return New(CodeValidationInvalid, message)
}

// OutOfRange reports a numeric value outside [min, max].
func OutOfRange(field string, min, max int, message string) *Error {
	err := New(CodeValidationOutOfRange, message).
		WithDetail("min", min).
		WithDetail("max", max)
	if field != "" {
		err = err.WithDetail("field", field)
	}
	return err
}

// NotFound reports that no entity matched. The id is optional.
func NotFound(entity string, id ...string) *Error {
	err := New(CodeNotFound, entity+" not found").WithDetail("entity", entity)
	if len(id) > 0 && strings.TrimSpace(id[0]) != "" {
		err = err.WithDetail("id", id[0])
	}
	return err
}

// Conflict reports a state conflict (e.g. entity still referenced).
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// DuplicateName reports a uniqueness violation on a name.
func DuplicateName(entity, name string) *Error {
	return New(CodeDuplicateName, fmt.Sprintf("%s with name '%s' already exists", entity, name)).
		WithDetail("entity", entity).
		WithDetail("name", name)
}

// InvalidStateTransition reports a forbidden lifecycle move.
func InvalidStateTransition(from, to string) *Error {
	return New(CodeInvalidStateTransition, fmt.Sprintf("cannot transition from %s to %s", from, to)).
		WithDetail("from", from).
		WithDetail("to", to)
}

// InsufficientPermissions reports a denied action.
func InsufficientPermissions(action string) *Error {
	return New(CodeInsufficientPermissions, "insufficient permissions to "+action).
		WithDetail("action", action)
}

// DependencyFailure wraps a lower-layer failure the service cannot interpret.
func DependencyFailure(message string, cause error) *Error {
	err := New(CodeDependencyFailure, message)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}

// Internal reports a programming error inside the pipeline itself.
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// From converts an arbitrary error into an *Error. Existing *Error values are
// returned as-is; anything else becomes a DependencyFailure.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return DependencyFailure("unexpected dependency error", err)
}

// Messages extracts the messages of errs in order.
func Messages(errs []*Error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err.Message)
		}
	}
	return out
}
