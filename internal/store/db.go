package store

import (
	"context"
)

// Rows is a result set from either driver.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Executor runs statements against the database or an open transaction.
type Executor interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	// Exec returns the number of rows affected.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// DB is a driver adapter.
type DB interface {
	Executor
	// InTx runs fn in a transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(Executor) error) error
	Ping(ctx context.Context) error
	Close() error
}
