package repositories

import "context"

// TxFn is a function executed within a transaction. The context it receives
// carries the transaction, so repository calls made with it automatically
// participate.
type TxFn func(ctx context.Context) error

// TransactionManager runs functions inside a database transaction. Any error
// returned by the function rolls the whole transaction back.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
