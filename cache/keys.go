package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/jinzhu/inflection"
)

// KeySeparator delimits cache key segments.
const KeySeparator = ":"

// DefaultNamespace is the namespace shared by reference table services.
const DefaultNamespace = "ReferenceTable"

// Operation names used as the third key segment.
const (
	OpGetAll     = "GetAll"
	OpGetByID    = "GetById"
	OpGetByValue = "GetByValue"
	OpGetByName  = "GetByName"
	OpExists     = "Exists"
)

// Keys builds cache keys of the form
// "<Namespace>:<EntityGroup>:<Operation>[:<Param>...]".
type Keys struct {
	namespace string
	group     string
}

// NewKeys returns a key builder for entity. The entity group is the plural of
// the entity name, so "DifficultyLevel" keys live under "DifficultyLevels".
func NewKeys(namespace, entity string) Keys {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Keys{namespace: namespace, group: inflection.Plural(entity)}
}

// Group returns the pluralised entity group.
func (k Keys) Group() string {
	return k.group
}

// Prefix returns "<Namespace>:<EntityGroup>:", the unit of invalidation.
func (k Keys) Prefix() string {
	return k.namespace + KeySeparator + k.group + KeySeparator
}

// All is the key for the full active list.
func (k Keys) All() string {
	return k.Prefix() + OpGetAll
}

// ByID keeps the identifier verbatim.
func (k Keys) ByID(id string) string {
	return k.Prefix() + OpGetByID + KeySeparator + id
}

// ByValue lower-cases the value so lookups are case-insensitive.
func (k Keys) ByValue(value string) string {
	return k.Generate(OpGetByValue, value)
}

// ByName lower-cases the name so lookups are case-insensitive.
func (k Keys) ByName(name string) string {
	return k.Generate(OpGetByName, name)
}

// Generate builds a key for an arbitrary operation. Every parameter is
// formatted and lower-cased.
func (k Keys) Generate(operation string, params ...any) string {
	var b strings.Builder
	b.WriteString(k.Prefix())
	b.WriteString(operation)
	for _, p := range params {
		b.WriteString(KeySeparator)
		b.WriteString(strings.ToLower(formatParam(p)))
	}
	return b.String()
}

// formatParam renders a key parameter deterministically.
func formatParam(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
		return formatParam(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = formatParam(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return fmt.Sprintf("%v", v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%T", v)
	}
	return string(data)
}
