package store

import (
	"context"
	"errors"

	"fleetdash/internal/platform/store/ch"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// chQuerier is the slice of *ch.CH the adapter needs
type chQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// newCHAdapter wraps a clickhouse client as the Warehouse seam
func newCHAdapter(c chQuerier) Warehouse {
	return &clickhouseAdapter{inner: c}
}

type clickhouseAdapter struct {
	inner chQuerier
}

var _ Warehouse = (*clickhouseAdapter)(nil)

func (a *clickhouseAdapter) Dialect() Dialect { return DialectClickHouse }

func (a *clickhouseAdapter) Query(ctx context.Context, sql string, params ...Param) (Rows, error) {
	r, err := a.inner.Query(ctx, sql, chArgs(params)...)
	if err != nil {
		return nil, err
	}
	return &chRows{r: r}, nil
}

// Ping verifies connectivity with ClickHouse
func (a *clickhouseAdapter) Ping(ctx context.Context) error {
	if a == nil || a.inner == nil {
		return errors.New("store: nil clickhouse adapter")
	}
	return a.inner.Ping(ctx)
}

func (a *clickhouseAdapter) Close() error { return a.inner.Close() }

// chArgs binds params for @name placeholders
func chArgs(params []Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = clickhouse.Named(p.Name, p.Value)
	}
	return out
}

// chRows wraps driver rows as store.Rows
type chRows struct {
	r ch.Rows
}

func (r *chRows) Next() bool             { return r.r.Next() }
func (r *chRows) Scan(dest ...any) error { return r.r.Scan(dest...) }
func (r *chRows) Err() error             { return r.r.Err() }
func (r *chRows) Close()                 { _ = r.r.Close() }
func (r *chRows) Columns() []string      { return r.r.Columns() }
