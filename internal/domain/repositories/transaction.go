package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. Every tree-mutating
// operation (propagation, deletion, clone) runs as one unit of work: either
// the entire recursive set of record mutations commits, or none does.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
