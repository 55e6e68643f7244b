package store

import (
	"context"
	"errors"
	"testing"

	"fleetdash/internal/platform/store/ch"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type fakeCH struct {
	sql  string
	args []any
	err  error
}

func (f *fakeCH) Query(_ context.Context, sql string, args ...any) (ch.Rows, error) {
	f.sql, f.args = sql, args
	return nil, f.err
}
func (f *fakeCH) Ping(context.Context) error { return f.err }
func (f *fakeCH) Close() error               { return nil }

func TestCHArgs_NamedBinds(t *testing.T) {
	t.Parallel()

	args := chArgs([]Param{P("startDate", "2025-09-15"), P("endDate", "2025-09-21")})
	if len(args) != 2 {
		t.Fatalf("args = %d", len(args))
	}
	nv, ok := args[0].(driver.NamedValue)
	if !ok {
		t.Fatalf("arg type = %T, want driver.NamedValue", args[0])
	}
	if nv.Name != "startDate" || nv.Value != "2025-09-15" {
		t.Fatalf("named value = %+v", nv)
	}
}

func TestCHAdapter_QueryForwardsAndWrapsErrors(t *testing.T) {
	t.Parallel()

	f := &fakeCH{err: errors.New("code: 60, unknown table")}
	wh := newCHAdapter(f)
	if wh.Dialect() != DialectClickHouse {
		t.Fatalf("dialect = %s", wh.Dialect())
	}
	if _, err := wh.Query(context.Background(), "SELECT 1 WHERE d >= @startDate", P("startDate", "2025-01-01")); err == nil {
		t.Fatalf("expected error")
	}
	if f.sql == "" || len(f.args) != 1 {
		t.Fatalf("query not forwarded: %q %v", f.sql, f.args)
	}
	if err := wh.Ping(context.Background()); err == nil {
		t.Fatalf("ping should surface client error")
	}
}
