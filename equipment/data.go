package equipment

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/getfitter/go-service-core/internal/storage"
	"github.com/getfitter/go-service-core/refdata/refid"
	"github.com/getfitter/go-service-core/result"
	"github.com/getfitter/go-service-core/serviceerr"
)

// Store is the data access the Equipment Service needs.
type Store interface {
	GetAllActive(ctx context.Context) result.Result[[]Equipment]
	GetByID(ctx context.Context, id refid.ID) result.Result[Equipment]
	GetByName(ctx context.Context, name string) result.Result[Equipment]
	Exists(ctx context.Context, id refid.ID) result.Result[bool]
	IsNameUnique(ctx context.Context, name string, excludeID refid.ID) result.Result[bool]
	IsInUse(ctx context.Context, id refid.ID) result.Result[bool]
	Create(ctx context.Context, cmd CreateCommand) result.Result[Equipment]
	Update(ctx context.Context, id refid.ID, cmd UpdateCommand) result.Result[Equipment]
	Deactivate(ctx context.Context, id refid.ID) result.Result[bool]
}

// DataService reads and writes the equipment table. Only active rows are
// visible; absence is Success(Empty).
type DataService struct {
	uow *storage.UnitOfWork
	now func() time.Time
}

var _ Store = (*DataService)(nil)

func NewDataService(uow *storage.UnitOfWork) *DataService {
	return &DataService{
		uow: uow,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func activeRows(db bun.IDB, dest any) *bun.SelectQuery {
	return db.NewSelect().Model(dest).Where("eq.is_active = ?", true)
}

func (d *DataService) GetAllActive(ctx context.Context) result.Result[[]Equipment] {
	var rows []equipmentRow
	err := d.uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		return activeRows(db, &rows).OrderExpr("eq.name ASC").Scan(ctx)
	})
	if err != nil {
		return failure[[]Equipment](err, "failed to load equipment list")
	}

	out := make([]Equipment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDTO())
	}
	return result.Success(out)
}

func (d *DataService) GetByID(ctx context.Context, id refid.ID) result.Result[Equipment] {
	return d.getOne(ctx, "eq.id = ?", id.String())
}

// GetByName matches case-insensitively.
func (d *DataService) GetByName(ctx context.Context, name string) result.Result[Equipment] {
	return d.getOne(ctx, "LOWER(eq.name) = LOWER(?)", strings.TrimSpace(name))
}

func (d *DataService) getOne(ctx context.Context, where string, arg any) result.Result[Equipment] {
	var r equipmentRow
	err := d.uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		return activeRows(db, &r).Where(where, arg).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return result.Success(Equipment{}.Empty())
	}
	if err != nil {
		return failure[Equipment](err, "failed to load equipment")
	}
	return result.Success(r.toDTO())
}

func (d *DataService) Exists(ctx context.Context, id refid.ID) result.Result[bool] {
	var exists bool
	err := d.uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		exists, err = activeRows(db, (*equipmentRow)(nil)).Where("eq.id = ?", id.String()).Exists(ctx)
		return err
	})
	if err != nil {
		return failure[bool](err, "failed to check equipment")
	}
	return result.Success(exists)
}

// IsNameUnique reports whether no other active row uses name, compared
// case-insensitively. An empty excludeID excludes nothing.
func (d *DataService) IsNameUnique(ctx context.Context, name string, excludeID refid.ID) result.Result[bool] {
	var taken bool
	err := d.uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		q := activeRows(db, (*equipmentRow)(nil)).
			Where("LOWER(eq.name) = LOWER(?)", strings.TrimSpace(name))
		if !excludeID.IsEmpty() {
			q = q.Where("eq.id <> ?", excludeID.String())
		}
		var err error
		taken, err = q.Exists(ctx)
		return err
	})
	if err != nil {
		return failure[bool](err, "failed to check equipment name")
	}
	return result.Success(!taken)
}

// IsInUse reports whether any exercise references the equipment.
func (d *DataService) IsInUse(ctx context.Context, id refid.ID) result.Result[bool] {
	var used bool
	err := d.uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		used, err = db.NewSelect().
			Model((*exerciseEquipmentRow)(nil)).
			Where("ee.equipment_id = ?", id.String()).
			Exists(ctx)
		return err
	})
	if err != nil {
		return failure[bool](err, "failed to check equipment usage")
	}
	return result.Success(used)
}

func (d *DataService) Create(ctx context.Context, cmd CreateCommand) result.Result[Equipment] {
	r := equipmentRow{
		ID:        NewID().String(),
		Name:      strings.TrimSpace(cmd.Name),
		IsActive:  true,
		CreatedAt: d.now(),
	}

	err := d.uow.Writable(ctx, func(ctx context.Context, db bun.IDB) error {
		_, err := db.NewInsert().Model(&r).Exec(ctx)
		return err
	})
	if err != nil {
		return failure[Equipment](err, "failed to create equipment")
	}
	return result.Success(r.toDTO())
}

// Update renames an active row. A missing or inactive row is Success(Empty).
func (d *DataService) Update(ctx context.Context, id refid.ID, cmd UpdateCommand) result.Result[Equipment] {
	var r equipmentRow
	err := d.uow.Writable(ctx, func(ctx context.Context, db bun.IDB) error {
		res, err := db.NewUpdate().
			Model((*equipmentRow)(nil)).
			Set("name = ?", strings.TrimSpace(cmd.Name)).
			Set("updated_at = ?", d.now()).
			Where("id = ?", id.String()).
			Where("is_active = ?", true).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return db.NewSelect().Model(&r).Where("eq.id = ?", id.String()).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return result.Success(Equipment{}.Empty())
	}
	if err != nil {
		return failure[Equipment](err, "failed to update equipment")
	}
	return result.Success(r.toDTO())
}

// Deactivate soft-deletes an active row. It reports false when nothing changed.
func (d *DataService) Deactivate(ctx context.Context, id refid.ID) result.Result[bool] {
	var changed bool
	err := d.uow.Writable(ctx, func(ctx context.Context, db bun.IDB) error {
		res, err := db.NewUpdate().
			Model((*equipmentRow)(nil)).
			Set("is_active = ?", false).
			Set("updated_at = ?", d.now()).
			Where("id = ?", id.String()).
			Where("is_active = ?", true).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		changed = n > 0
		return err
	})
	if err != nil {
		return failure[bool](err, "failed to delete equipment")
	}
	return result.Success(changed)
}

// LinkExercise records that exerciseID uses the equipment. Linking twice is a
// no-op.
func (d *DataService) LinkExercise(ctx context.Context, exerciseID string, id refid.ID) result.Result[struct{}] {
	link := exerciseEquipmentRow{ExerciseID: exerciseID, EquipmentID: id.String()}
	err := d.uow.Writable(ctx, func(ctx context.Context, db bun.IDB) error {
		_, err := db.NewInsert().Model(&link).On("CONFLICT DO NOTHING").Exec(ctx)
		return err
	})
	if err != nil {
		return failure[struct{}](err, "failed to link equipment")
	}
	return result.Success(struct{}{})
}

func failure[T any](err error, message string) result.Result[T] {
	return result.Failure[T](serviceerr.FromData(serviceerr.ClassifyDB(err, message)))
}
