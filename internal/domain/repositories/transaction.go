package repositories

import "context"

// TxFn is the unit of work run by ExecTx. It must use the ctx it is given.
type TxFn func(ctx context.Context) error

// TransactionManager groups repository calls into one atomic unit, such as
// counting the remaining admins and deleting a user.
type TransactionManager interface {
	// ExecTx commits when fn returns nil and rolls back otherwise. A call made
	// inside another ExecTx joins the outer transaction.
	ExecTx(ctx context.Context, fn TxFn) error
}
