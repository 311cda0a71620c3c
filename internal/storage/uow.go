// Package storage owns the database handle and the unit-of-work scopes data
// services run their queries in.
package storage

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

// UnitOfWork opens transactional scopes. Each scope is opened and released
// within a single call; callers never hold a transaction across calls.
type UnitOfWork struct {
	db *bun.DB
}

// NewUnitOfWork wraps db.
func NewUnitOfWork(db *bun.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// DB exposes the underlying handle for schema management.
func (u *UnitOfWork) DB() *bun.DB {
	return u.db
}

// ReadOnly runs fn in a read-only transaction. The transaction is always
// rolled back or committed before ReadOnly returns.
func (u *UnitOfWork) ReadOnly(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	return u.db.RunInTx(ctx, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// Writable runs fn in a read-write transaction, committing when fn returns
// nil and rolling back otherwise.
func (u *UnitOfWork) Writable(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	return u.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// CreateTables creates the tables for models if they do not exist.
func CreateTables(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
