// Package refid implements prefixed identifiers such as
// "difficultylevel-8a2f3c1e-...". The prefix names the entity; the remainder
// is a UUID.
package refid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrEmpty is returned by Parse for blank input.
	ErrEmpty = errors.New("refid: empty identifier")
	// ErrInvalidFormat is returned by Parse for input that is not "<prefix>-<uuid>".
	ErrInvalidFormat = errors.New("refid: invalid identifier format")
)

// ID is a prefixed identifier. The zero value is the Empty ID.
type ID struct {
	prefix string
	value  uuid.UUID
}

// New returns a fresh ID for prefix.
func New(prefix string) ID {
	return ID{prefix: prefix, value: uuid.New()}
}

// From builds an ID from an existing UUID.
func From(prefix string, value uuid.UUID) ID {
	return ID{prefix: prefix, value: value}
}

// Parse reads "<prefix>-<uuid>". The prefix must match exactly.
func Parse(prefix, s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, ErrEmpty
	}

	rest, ok := strings.CutPrefix(s, prefix+"-")
	if !ok {
		return ID{}, fmt.Errorf("%w: expected '%s-{guid}', got '%s'", ErrInvalidFormat, prefix, s)
	}

	value, err := uuid.Parse(rest)
	if err != nil {
		return ID{}, fmt.Errorf("%w: expected '%s-{guid}', got '%s'", ErrInvalidFormat, prefix, s)
	}

	return ID{prefix: prefix, value: value}, nil
}

// ParseOrEmpty is Parse that swallows errors and returns the Empty ID.
func ParseOrEmpty(prefix, s string) ID {
	id, err := Parse(prefix, s)
	if err != nil {
		return ID{}
	}
	return id
}

// IsEmpty reports whether the ID carries no UUID.
func (id ID) IsEmpty() bool {
	return id.value == uuid.Nil
}

// Empty returns the Empty ID.
func (ID) Empty() ID {
	return ID{}
}

// Prefix returns the entity prefix.
func (id ID) Prefix() string {
	return id.prefix
}

// UUID returns the underlying UUID.
func (id ID) UUID() uuid.UUID {
	return id.value
}

// String returns "<prefix>-<uuid>", or "" for the Empty ID.
func (id ID) String() string {
	if id.IsEmpty() {
		return ""
	}
	return id.prefix + "-" + id.value.String()
}
