package repo

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"fleetdash/internal/core/pacific"
	perr "fleetdash/internal/platform/errors"
	"fleetdash/internal/platform/metrics"
	"fleetdash/internal/platform/store"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/api/googleapi"
)

var week = pacific.Range{Start: "2025-09-15", End: "2025-09-21"}

func TestQueries_EveryOpForEveryDialect(t *testing.T) {
	t.Parallel()

	ops := []string{opSnapshots, opBattery, opHeartbeats, opLocations, opUptime}
	for _, d := range []store.Dialect{store.DialectBigQuery, store.DialectClickHouse} {
		for _, op := range ops {
			sql := queries[d][op]
			if sql == "" {
				t.Fatalf("%s has no %s query", d, op)
			}
			for _, p := range []string{"@startDate", "@endDate", "@deviceId", "@tz"} {
				if !strings.Contains(sql, p) {
					t.Fatalf("%s %s query does not reference %s", d, op, p)
				}
			}
		}
	}
}

func TestQueries_LocationsKeepNewestPerDay(t *testing.T) {
	t.Parallel()

	for _, d := range []store.Dialect{store.DialectBigQuery, store.DialectClickHouse} {
		sql := queries[d][opLocations]
		if !strings.Contains(sql, "ts DESC") || !strings.Contains(sql, strconv.Itoa(LocationsPerDay+1)) {
			t.Fatalf("%s locations query should keep the newest %d+1 per day:\n%s", d, LocationsPerDay, sql)
		}
	}
	if !strings.Contains(queries[store.DialectClickHouse][opSnapshots], "maxIfOrNull(ts") {
		t.Fatalf("clickhouse last heartbeat must be NULL when a device has none")
	}
}

func TestWarehouse_BindsParamsAndScans(t *testing.T) {
	t.Parallel()

	wh := &fakeWH{
		dialect: store.DialectBigQuery,
		rows: &fakeRows{data: [][]any{
			{"2025-09-15", int64(4)},
			{"2025-09-17", int64(9)},
		}},
	}
	src := NewWarehouse(wh, "America/Los_Angeles", nil)
	if src.Name() != "bigquery" {
		t.Fatalf("name = %q", src.Name())
	}

	got, err := src.Heartbeats(context.Background(), Query{Range: week, DeviceID: "van-07"})
	if err != nil {
		t.Fatalf("Heartbeats: %v", err)
	}
	if len(got) != 2 || got[1].Day != "2025-09-17" || got[1].Count != 9 {
		t.Fatalf("rows = %+v", got)
	}
	if !wh.rows.closed {
		t.Fatalf("rows should be closed")
	}
	if !strings.Contains(wh.sql, "DATE(ts, @tz)") {
		t.Fatalf("bigquery sql should cut dates in the zone:\n%s", wh.sql)
	}

	want := map[string]any{
		"startDate": "2025-09-15",
		"endDate":   "2025-09-21",
		"deviceId":  "van-07",
		"tz":        "America/Los_Angeles",
	}
	if len(wh.params) != len(want) {
		t.Fatalf("params = %+v", wh.params)
	}
	for _, p := range wh.params {
		if want[p.Name] != p.Value {
			t.Fatalf("param %s = %v, want %v", p.Name, p.Value, want[p.Name])
		}
	}
}

func TestWarehouse_ClickHouseScansEveryOp(t *testing.T) {
	t.Parallel()

	seen := time.Date(2025, 9, 21, 23, 0, 0, 0, time.UTC)
	ctx := context.Background()
	q := Query{Range: week}

	wh := &fakeWH{dialect: store.DialectClickHouse}
	src := NewWarehouse(wh, "America/Los_Angeles", nil)

	wh.rows = &fakeRows{data: [][]any{
		{"van-07", 81.5, 37.8, -122.2, int64(3600), &seen},
		{"van-09", 40.0, 37.1, -121.9, int64(60), (*time.Time)(nil)},
	}}
	snaps, err := src.Snapshots(ctx, q)
	if err != nil || len(snaps) != 2 || !snaps[0].LastHeartbeat.Equal(seen) || snaps[0].UptimeSeconds != 3600 {
		t.Fatalf("Snapshots = %+v, %v", snaps, err)
	}
	if !snaps[1].LastHeartbeat.IsZero() {
		t.Fatalf("device without heartbeats got %s", snaps[1].LastHeartbeat)
	}
	if !strings.Contains(wh.sql, "toDate(ts, @tz)") {
		t.Fatalf("clickhouse sql should cut dates in the zone:\n%s", wh.sql)
	}

	wh.rows = &fakeRows{data: [][]any{{"van-07", "2025-09-20", 70.0, 41.0}}}
	bat, err := src.Battery(ctx, q)
	if err != nil || len(bat) != 1 || bat[0].MinPct != 41 {
		t.Fatalf("Battery = %+v, %v", bat, err)
	}

	wh.rows = &fakeRows{data: [][]any{{"van-07", seen, 37.8, -122.2}}}
	locs, err := src.Locations(ctx, q)
	if err != nil || len(locs) != 1 || locs[0].Lng != -122.2 {
		t.Fatalf("Locations = %+v, %v", locs, err)
	}

	wh.rows = &fakeRows{data: [][]any{{"van-07", int64(86400)}}}
	up, err := src.Uptime(ctx, q)
	if err != nil || len(up) != 1 || up[0].UptimeSeconds != 86400 {
		t.Fatalf("Uptime = %+v, %v", up, err)
	}
}

func TestWarehouse_ErrorsAreMappedAndTimed(t *testing.T) {
	t.Parallel()

	inst := metrics.New("test")
	wh := &fakeWH{dialect: store.DialectClickHouse, err: errors.New("connection reset")}
	src := NewWarehouse(wh, "UTC", inst)

	_, err := src.Uptime(context.Background(), Query{Range: week})
	if err == nil {
		t.Fatalf("expected error")
	}
	if perr.CodeOf(err) != perr.ErrorCodeWarehouse {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	if n := testutil.CollectAndCount(inst.WarehouseSeconds); n != 1 {
		t.Fatalf("observed %d series", n)
	}

	wh.err = nil
	wh.rows = &fakeRows{err: errors.New("stream broke")}
	if _, err := src.Uptime(context.Background(), Query{Range: week}); perr.CodeOf(err) != perr.ErrorCodeWarehouse {
		t.Fatalf("scan error code = %v", perr.CodeOf(err))
	}
}

func TestWarehouse_UnknownDialect(t *testing.T) {
	t.Parallel()

	src := NewWarehouse(&fakeWH{dialect: "duckdb"}, "UTC", nil)
	if _, err := src.Battery(context.Background(), Query{Range: week}); perr.CodeOf(err) != perr.ErrorCodeWarehouse {
		t.Fatalf("expected warehouse error, got %v", err)
	}
}

func instantRetry(context.Context) backoff.BackOff {
	return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, warehouseRetries)
}

func TestWarehouse_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	wh := &fakeWH{
		dialect:  store.DialectBigQuery,
		failures: []error{&googleapi.Error{Code: 503}},
		rows:     &fakeRows{data: [][]any{{"van-07", int64(3600)}}},
	}
	src := &warehouseSource{wh: wh, tz: "UTC", retry: instantRetry}

	got, err := src.Uptime(context.Background(), Query{Range: week})
	if err != nil {
		t.Fatalf("Uptime: %v", err)
	}
	if wh.calls != 2 || len(got) != 1 {
		t.Fatalf("calls = %d rows = %+v", wh.calls, got)
	}
}

func TestWarehouse_RetryBudgetAndPermanentErrors(t *testing.T) {
	t.Parallel()

	busy := &googleapi.Error{Code: 429}
	wh := &fakeWH{dialect: store.DialectBigQuery, failures: []error{busy, busy, busy, busy}}
	src := &warehouseSource{wh: wh, tz: "UTC", retry: instantRetry}

	_, err := src.Battery(context.Background(), Query{Range: week})
	if perr.CodeOf(err) != perr.ErrorCodeTooManyRequests {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	if wh.calls != 1+warehouseRetries {
		t.Fatalf("calls = %d, want %d", wh.calls, 1+warehouseRetries)
	}

	wh = &fakeWH{dialect: store.DialectBigQuery, failures: []error{&googleapi.Error{Code: 400}}}
	src.wh = wh
	if _, err := src.Battery(context.Background(), Query{Range: week}); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	if wh.calls != 1 {
		t.Fatalf("bad request should not be retried, calls = %d", wh.calls)
	}
}
