package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// DBTX is the query surface every repository runs against.
//
// *pgxpool.Pool, pgx.Tx and pgxmock pools all satisfy it, so the same
// repository code works on the pool, inside a transaction and in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InTx runs fn inside a transaction on db.
//
// The transaction commits when fn returns nil and rolls back otherwise.
// When db is already a transaction, pgx opens a savepoint instead.
func InTx(ctx context.Context, db DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	if err := fn(tx); err != nil {
		// fn's error wins over a failed rollback.
		_ = tx.Rollback(ctx)
		return err
	}

	return errors.Wrap(tx.Commit(ctx), "committing transaction")
}
