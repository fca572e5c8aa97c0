package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. Its concrete type is infra-defined
// (pgx.Tx for Postgres); repositories accept NoTX for the non-transactional path.
type Tx interface{}

var NoTX Tx

// TransactionManager executes fn inside a transaction and passes the handle
// through tx. A non-nil error from fn rolls the transaction back.
//
// Repository methods receiving the same tx run on the same connection, so
// conditional writes and SELECT ... FOR UPDATE observe each other.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
