package repo

import (
	"context"
	"fmt"
	"reflect"

	"fleetdash/internal/modkit/repokit"
	"fleetdash/internal/platform/store"
)

// fakeRows replays literal rows through reflection
type fakeRows struct {
	data   [][]any
	i      int
	err    error
	closed bool
}

func (f *fakeRows) Next() bool {
	if f.i >= len(f.data) {
		return false
	}
	f.i++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.i-1]
	if len(row) != len(dest) {
		return fmt.Errorf("scan %d into %d", len(row), len(dest))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (f *fakeRows) Err() error        { return f.err }
func (f *fakeRows) Close()            { f.closed = true }
func (f *fakeRows) Columns() []string { return nil }

type fakeWH struct {
	dialect store.Dialect
	rows    *fakeRows
	err     error
	// failures are returned by the first calls before err/rows apply
	failures []error

	calls  int
	sql    string
	params []store.Param
}

var _ repokit.Warehouse = (*fakeWH)(nil)

func (f *fakeWH) Dialect() store.Dialect { return f.dialect }

func (f *fakeWH) Query(_ context.Context, sql string, params ...store.Param) (store.Rows, error) {
	f.sql, f.params = sql, params
	f.calls++
	if f.calls <= len(f.failures) {
		return nil, f.failures[f.calls-1]
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.rows == nil {
		f.rows = &fakeRows{}
	}
	return f.rows, nil
}

func (f *fakeWH) Ping(context.Context) error { return nil }
func (f *fakeWH) Close() error               { return nil }

// fakeQ is a Queryer whose Query result is canned
type fakeQ struct {
	rows    *fakeRows
	err     error
	execSQL string
	execErr error
}

var _ repokit.Queryer = (*fakeQ)(nil)

func (f *fakeQ) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	f.execSQL = sql
	return nil, f.execErr
}

func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row { return nil }
