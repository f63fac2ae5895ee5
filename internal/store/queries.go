package store

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	tableBooks    = "books"
	tableComments = "comments"
	tableUsers    = "users"
	tableTokens   = "verification_tokens"
)

// queries builds dialect specific SQL and bounds each statement with a timeout.
type queries struct {
	dialect goqu.DialectWrapper
	timeout time.Duration
}

type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

func (q queries) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, q.timeout)
}

func (q queries) from(table string) *goqu.SelectDataset {
	return q.dialect.From(table).Prepared(true)
}

func (q queries) insert(table string) *goqu.InsertDataset {
	return q.dialect.Insert(table).Prepared(true)
}

func (q queries) update(table string) *goqu.UpdateDataset {
	return q.dialect.Update(table).Prepared(true)
}

func (q queries) delete(table string) *goqu.DeleteDataset {
	return q.dialect.Delete(table).Prepared(true)
}

func build(b sqlBuilder) (string, []any, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build sql: %w", err)
	}
	return query, args, nil
}

// excluded refers to the row proposed for insertion in an upsert.
func excluded(col string) exp.LiteralExpression {
	return goqu.L("excluded." + col)
}

func micros(t time.Time) int64 { return t.UnixMicro() }

func fromMicros(v int64) time.Time { return time.UnixMicro(v).UTC() }
