package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queryable is the query surface shared by *pgxpool.Pool, *pgxpool.Conn and
// pgx.Tx. Repositories accept it so the same code runs inside and outside a
// transaction.
type Queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// TxRunner executes fn atomically with respect to concurrent callers.
// Services depend on this type rather than on a pool so they can run against
// in-memory repositories in tests.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PoolTxRunner returns a TxRunner backed by RunInTx on the given pool.
func PoolTxRunner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return RunInTx(ctx, pool, fn)
	}
}

// PassthroughTxRunner returns a TxRunner that provides no atomicity. Intended
// for tests and for stores that supply their own transaction boundary.
func PassthroughTxRunner() TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
}

// RunInTx executes fn inside a single database transaction. The transaction
// is stored in the returned context under DBConnKey, so repository calls made
// through that context join it; a conflict check followed by a write is
// therefore atomic with respect to concurrent callers.
//
// Nested calls are flattened: when the context already carries a transaction,
// fn runs within it and commit/rollback is left to the outermost caller.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if ConnFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, DBConnKey, Queryable(tx))
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
