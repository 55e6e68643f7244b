package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetdash/internal/platform/store/bq"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
)

// newBQAdapter wraps a bigquery client as the Warehouse seam
func newBQAdapter(c *bq.BQ) Warehouse {
	return &bigqueryAdapter{inner: c}
}

type bigqueryAdapter struct {
	inner *bq.BQ
}

var _ Warehouse = (*bigqueryAdapter)(nil)

func (a *bigqueryAdapter) Dialect() Dialect { return DialectBigQuery }

func (a *bigqueryAdapter) Query(ctx context.Context, sql string, params ...Param) (Rows, error) {
	it, err := a.inner.Query(ctx, sql, bqParams(params))
	if err != nil {
		return nil, err
	}
	return &bqRows{
		it: it,
		columns: func() []string {
			out := make([]string, len(it.Schema))
			for i, f := range it.Schema {
				out[i] = f.Name
			}
			return out
		},
	}, nil
}

func (a *bigqueryAdapter) Ping(ctx context.Context) error {
	if a == nil || a.inner == nil {
		return errors.New("store: nil bigquery adapter")
	}
	return a.inner.Ping(ctx)
}

func (a *bigqueryAdapter) Close() error { return a.inner.Close() }

func bqParams(params []Param) []bigquery.QueryParameter {
	out := make([]bigquery.QueryParameter, len(params))
	for i, p := range params {
		out[i] = bigquery.QueryParameter{Name: p.Name, Value: p.Value}
	}
	return out
}

// valueIterator is the part of *bigquery.RowIterator bqRows drives
type valueIterator interface {
	Next(dst any) error
}

// bqRows adapts the pull style bigquery iterator to store.Rows
type bqRows struct {
	it      valueIterator
	columns func() []string
	cur     []bigquery.Value
	err     error
	done    bool
}

func (r *bqRows) Next() bool {
	if r.done {
		return false
	}
	var vals []bigquery.Value
	if err := r.it.Next(&vals); err != nil {
		r.done = true
		if !errors.Is(err, iterator.Done) {
			r.err = err
		}
		return false
	}
	r.cur = vals
	return true
}

func (r *bqRows) Scan(dest ...any) error {
	if len(dest) != len(r.cur) {
		return fmt.Errorf("bq: scan %d columns into %d destinations", len(r.cur), len(dest))
	}
	for i := range dest {
		if err := assignValue(dest[i], r.cur[i]); err != nil {
			return fmt.Errorf("bq: column %d: %w", i, err)
		}
	}
	return nil
}

func (r *bqRows) Err() error { return r.err }
func (r *bqRows) Close()     { r.done = true }

func (r *bqRows) Columns() []string {
	if r.columns == nil {
		return nil
	}
	return r.columns()
}

// assignValue copies one bigquery cell into a Go destination
// NULL cells leave the zero value
func assignValue(dst any, v bigquery.Value) error {
	switch d := dst.(type) {
	case *any:
		*d = v
		return nil
	case *string:
		switch x := v.(type) {
		case nil:
			*d = ""
		case string:
			*d = x
		case civil.Date:
			*d = x.String()
		case fmt.Stringer: // civil.DateTime, civil.Time
			*d = x.String()
		default:
			return fmt.Errorf("cannot assign %T to *string", v)
		}
		return nil
	case *int64:
		switch x := v.(type) {
		case nil:
			*d = 0
		case int64:
			*d = x
		default:
			return fmt.Errorf("cannot assign %T to *int64", v)
		}
		return nil
	case *int:
		switch x := v.(type) {
		case nil:
			*d = 0
		case int64:
			*d = int(x)
		default:
			return fmt.Errorf("cannot assign %T to *int", v)
		}
		return nil
	case *float64:
		switch x := v.(type) {
		case nil:
			*d = 0
		case float64:
			*d = x
		case int64:
			*d = float64(x)
		default:
			return fmt.Errorf("cannot assign %T to *float64", v)
		}
		return nil
	case *bool:
		switch x := v.(type) {
		case nil:
			*d = false
		case bool:
			*d = x
		default:
			return fmt.Errorf("cannot assign %T to *bool", v)
		}
		return nil
	case *time.Time:
		switch x := v.(type) {
		case nil:
			*d = time.Time{}
		case time.Time:
			*d = x
		default:
			return fmt.Errorf("cannot assign %T to *time.Time", v)
		}
		return nil
	case **time.Time:
		switch x := v.(type) {
		case nil:
			*d = nil
		case time.Time:
			*d = &x
		default:
			return fmt.Errorf("cannot assign %T to **time.Time", v)
		}
		return nil
	case *civil.Date:
		switch x := v.(type) {
		case nil:
			*d = civil.Date{}
		case civil.Date:
			*d = x
		case string:
			cd, err := civil.ParseDate(x)
			if err != nil {
				return err
			}
			*d = cd
		default:
			return fmt.Errorf("cannot assign %T to *civil.Date", v)
		}
		return nil
	}
	return fmt.Errorf("unsupported destination %T", dst)
}
