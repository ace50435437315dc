package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface shared by the pgx pool and an open pgx.Tx.
// Postgres repositories run every statement through it, so the same code
// works inside and outside TransactionManager.ExecTx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

type activeTxKey struct{}

// SetTx returns a context carrying tx. Repositories called with it join tx
// instead of using the pool.
func SetTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, activeTxKey{}, tx)
}

// GetTx returns the transaction opened by an enclosing ExecTx, or nil.
func GetTx(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(activeTxKey{}).(pgx.Tx)
	return tx
}
