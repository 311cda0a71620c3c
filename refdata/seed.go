package refdata

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/getfitter/go-service-core/internal/storage"
)

//go:embed seed.json
var defaultSeed []byte

// SeedRow is one reference row to insert. An empty ID gets a fresh one.
type SeedRow struct {
	Group        string `json:"group"`
	ID           string `json:"id,omitempty"`
	Value        string `json:"value"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

// DefaultSeed returns the reference rows shipped with the platform.
func DefaultSeed() ([]SeedRow, error) {
	var rows []SeedRow
	if err := json.Unmarshal(defaultSeed, &rows); err != nil {
		return nil, fmt.Errorf("decode default seed: %w", err)
	}
	return rows, nil
}

// Seed creates the reference_data table if needed and inserts rows in one
// writable scope. Rows naming an unknown group are rejected.
func Seed(ctx context.Context, uow *storage.UnitOfWork, rows []SeedRow) error {
	if err := storage.CreateTables(ctx, uow.DB(), Models()...); err != nil {
		return fmt.Errorf("create reference tables: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	models := make([]row, 0, len(rows))
	for i, r := range rows {
		group, ok := GroupByName(r.Group)
		if !ok {
			return fmt.Errorf("seed row %d: unknown reference group %q", i, r.Group)
		}

		id := r.ID
		if id == "" {
			id = group.NewID().String()
		} else if _, err := group.ParseID(id); err != nil {
			return fmt.Errorf("seed row %d: %w", i, err)
		}

		active := true
		if r.IsActive != nil {
			active = *r.IsActive
		}

		models = append(models, row{
			ID:           id,
			Group:        group.Name,
			Value:        r.Value,
			Description:  r.Description,
			DisplayOrder: r.DisplayOrder,
			IsActive:     active,
		})
	}

	return uow.Writable(ctx, func(ctx context.Context, db bun.IDB) error {
		_, err := db.NewInsert().Model(&models).Exec(ctx)
		return err
	})
}

// SeedIfEmpty runs Seed only when the reference table holds no rows, so a
// persistent database is seeded once. It reports whether rows were inserted.
func SeedIfEmpty(ctx context.Context, uow *storage.UnitOfWork, rows []SeedRow) (bool, error) {
	if err := storage.CreateTables(ctx, uow.DB(), Models()...); err != nil {
		return false, fmt.Errorf("create reference tables: %w", err)
	}

	var count int
	err := uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		count, err = db.NewSelect().Model((*row)(nil)).Count(ctx)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("count reference rows: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := Seed(ctx, uow, rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}
