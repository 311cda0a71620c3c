// Package equipment serves the mutable Equipment reference table. Unlike the
// pure reference groups it accepts writes, so reads go through a timed cache
// that every successful write invalidates.
package equipment

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/getfitter/go-service-core/refdata/refid"
)

const (
	// EntityName is used in error messages and cache keys.
	EntityName = "Equipment"
	// IDPrefix is the identifier prefix, as in "equipment-<uuid>".
	IDPrefix = "equipment"
	// MaxNameLength bounds Equipment.Name in runes.
	MaxNameLength = 100
)

// Equipment is the read model.
type Equipment struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (e Equipment) IsEmpty() bool {
	return e.ID == ""
}

func (Equipment) Empty() Equipment {
	return Equipment{}
}

// CreateCommand carries the fields of a new Equipment.
type CreateCommand struct {
	Name string
}

// UpdateCommand carries the fields an update may change.
type UpdateCommand struct {
	Name string
}

// NewID returns a fresh Equipment identifier.
func NewID() refid.ID {
	return refid.New(IDPrefix)
}

// ParseID parses s as an Equipment identifier.
func ParseID(s string) (refid.ID, error) {
	return refid.Parse(IDPrefix, s)
}

type equipmentRow struct {
	bun.BaseModel `bun:"table:equipment,alias:eq"`

	ID        string       `bun:"id,pk"`
	Name      string       `bun:"name,notnull"`
	IsActive  bool         `bun:"is_active,notnull"`
	CreatedAt time.Time    `bun:"created_at,notnull"`
	UpdatedAt bun.NullTime `bun:"updated_at"`
}

func (r equipmentRow) toDTO() Equipment {
	e := Equipment{
		ID:        r.ID,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt.Time
		e.UpdatedAt = &t
	}
	return e
}

// exerciseEquipmentRow links an exercise to the equipment it needs. Equipment
// with at least one link cannot be deleted.
type exerciseEquipmentRow struct {
	bun.BaseModel `bun:"table:exercise_equipment,alias:ee"`

	ExerciseID  string `bun:"exercise_id,pk"`
	EquipmentID string `bun:"equipment_id,pk"`
}

// Models returns the bun models this package stores, for schema creation.
func Models() []any {
	return []any{(*equipmentRow)(nil), (*exerciseEquipmentRow)(nil)}
}
