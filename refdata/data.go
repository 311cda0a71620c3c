package refdata

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/getfitter/go-service-core/internal/storage"
	"github.com/getfitter/go-service-core/refdata/refid"
	"github.com/getfitter/go-service-core/result"
	"github.com/getfitter/go-service-core/serviceerr"
)

// Store is the data access a reference Service needs.
type Store interface {
	GetAllActive(ctx context.Context) result.Result[[]ReferenceData]
	GetByID(ctx context.Context, id refid.ID) result.Result[ReferenceData]
	GetByValue(ctx context.Context, value string) result.Result[ReferenceData]
	Exists(ctx context.Context, id refid.ID) result.Result[bool]
	AllExist(ctx context.Context, ids []refid.ID) result.Result[bool]
}

// DataService reads one reference group from the reference_data table.
// Absence is Success(Empty); only the service layer turns it into NotFound.
type DataService struct {
	uow   *storage.UnitOfWork
	group Group
}

var _ Store = (*DataService)(nil)

// NewDataService returns a data service scoped to group.
func NewDataService(uow *storage.UnitOfWork, group Group) *DataService {
	return &DataService{uow: uow, group: group}
}

func (d *DataService) activeRows(db bun.IDB, dest any) *bun.SelectQuery {
	return db.NewSelect().
		Model(dest).
		Where("rd.grp = ?", d.group.Name).
		Where("rd.is_active = ?", true)
}

func (d *DataService) GetAllActive(ctx context.Context) result.Result[[]ReferenceData] {
	var rows []row
	err := d.uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		return d.activeRows(db, &rows).
			OrderExpr("rd.display_order ASC").
			OrderExpr("rd.value ASC").
			Scan(ctx)
	})
	if err != nil {
		return failure[[]ReferenceData](err, "failed to load "+d.group.Name+" list")
	}

	out := make([]ReferenceData, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDTO())
	}
	return result.Success(out)
}

func (d *DataService) GetByID(ctx context.Context, id refid.ID) result.Result[ReferenceData] {
	return d.getOne(ctx, "rd.id = ?", id.String())
}

// GetByValue matches case-insensitively.
func (d *DataService) GetByValue(ctx context.Context, value string) result.Result[ReferenceData] {
	return d.getOne(ctx, "LOWER(rd.value) = LOWER(?)", value)
}

func (d *DataService) getOne(ctx context.Context, where string, arg any) result.Result[ReferenceData] {
	var r row
	err := d.uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		return d.activeRows(db, &r).Where(where, arg).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return result.Success(ReferenceData{}.Empty())
	}
	if err != nil {
		return failure[ReferenceData](err, "failed to load "+d.group.Name)
	}
	return result.Success(r.toDTO())
}

func (d *DataService) Exists(ctx context.Context, id refid.ID) result.Result[bool] {
	var exists bool
	err := d.uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		exists, err = d.activeRows(db, (*row)(nil)).Where("rd.id = ?", id.String()).Exists(ctx)
		return err
	})
	if err != nil {
		return failure[bool](err, "failed to check "+d.group.Name)
	}
	return result.Success(exists)
}

// AllExist reports whether every id names an active row of the group.
func (d *DataService) AllExist(ctx context.Context, ids []refid.ID) result.Result[bool] {
	if len(ids) == 0 {
		return result.Success(true)
	}

	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id.String()] = struct{}{}
	}
	keys := make([]string, 0, len(unique))
	for k := range unique {
		keys = append(keys, k)
	}

	var count int
	err := d.uow.ReadOnly(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		count, err = d.activeRows(db, (*row)(nil)).Where("rd.id IN (?)", bun.In(keys)).Count(ctx)
		return err
	})
	if err != nil {
		return failure[bool](err, "failed to check "+d.group.Name)
	}
	return result.Success(count == len(keys))
}

func failure[T any](err error, message string) result.Result[T] {
	return result.Failure[T](serviceerr.FromData(serviceerr.ClassifyDB(err, message)))
}
