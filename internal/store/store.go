// Package store defines the query surface the repositories depend on.
//
// Repositories receive a Store rather than a *pgxpool.Pool so tests can
// substitute an in-memory implementation (see store/memstore).
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the transactional query interface over the relational store.
// *pgxpool.Pool satisfies it directly.
type Store interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ Store = (*pgxpool.Pool)(nil)
