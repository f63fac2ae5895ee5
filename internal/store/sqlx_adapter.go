package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type sqlxExecutor struct {
	ext sqlx.ExtContext
}

func (e sqlxExecutor) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := e.ext.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (e sqlxExecutor) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := e.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SQLXAdapter implements DB for sqlx.DB.
type SQLXAdapter struct {
	sqlxExecutor
	db *sqlx.DB
}

func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{sqlxExecutor: sqlxExecutor{ext: db}, db: db}
}

func (s *SQLXAdapter) InTx(ctx context.Context, fn func(Executor) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(sqlxExecutor{ext: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (s *SQLXAdapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLXAdapter) Close() error {
	return s.db.Close()
}

// SQLX exposes the underlying handle, e.g. for goose.
func (s *SQLXAdapter) SQLX() *sqlx.DB {
	return s.db
}
