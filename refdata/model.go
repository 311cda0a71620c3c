package refdata

import "github.com/uptrace/bun"

// ReferenceData is the read model every reference group exposes.
type ReferenceData struct {
	ID          string `json:"id"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// IsEmpty reports whether r is the Empty sentinel.
func (r ReferenceData) IsEmpty() bool {
	return r.ID == ""
}

// Empty returns the Empty sentinel.
func (ReferenceData) Empty() ReferenceData {
	return ReferenceData{}
}

// row is the storage shape shared by all groups.
type row struct {
	bun.BaseModel `bun:"table:reference_data,alias:rd"`

	ID           string `bun:"id,pk"`
	Group        string `bun:"grp,notnull"`
	Value        string `bun:"value,notnull"`
	Description  string `bun:"description"`
	DisplayOrder int    `bun:"display_order,notnull"`
	IsActive     bool   `bun:"is_active,notnull"`
}

func (r row) toDTO() ReferenceData {
	return ReferenceData{ID: r.ID, Value: r.Value, Description: r.Description}
}

// Models returns the bun models this package stores, for schema creation.
func Models() []any {
	return []any{(*row)(nil)}
}
