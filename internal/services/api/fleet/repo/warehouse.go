package repo

import (
	"context"
	"time"

	"fleetdash/internal/modkit/repokit"
	perr "fleetdash/internal/platform/errors"
	"fleetdash/internal/platform/metrics"
	"fleetdash/internal/platform/store"

	"github.com/cenkalti/backoff/v4"
)

// warehouseRetries bounds extra attempts on rate limits and backend hiccups
const warehouseRetries = 2

// NewWarehouse returns a Source reading telemetry_events from wh
// tz is the IANA zone dates are cut in
func NewWarehouse(wh repokit.Warehouse, tz string, inst *metrics.Instrumentation) Source {
	return &warehouseSource{wh: wh, tz: tz, inst: inst, retry: defaultRetry}
}

type warehouseSource struct {
	wh    repokit.Warehouse
	tz    string
	inst  *metrics.Instrumentation
	retry func(context.Context) backoff.BackOff
}

func defaultRetry(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 200 * time.Millisecond
	eb.MaxInterval = time.Second
	return backoff.WithContext(backoff.WithMaxRetries(eb, warehouseRetries), ctx)
}

// permanentUnless stops the retry loop for anything not worth another attempt
func permanentUnless(err error) error {
	if perr.Retryable(err) {
		return err
	}
	return backoff.Permanent(err)
}

func (w *warehouseSource) Name() string { return string(w.wh.Dialect()) }

func (w *warehouseSource) params(q Query) []store.Param {
	return []store.Param{
		store.P("startDate", q.Range.Start.String()),
		store.P("endDate", q.Range.End.String()),
		store.P("deviceId", q.DeviceID),
		store.P("tz", w.tz),
	}
}

// read runs the dialect's query for op and scans every row
func read[T any](ctx context.Context, w *warehouseSource, op string, q Query, scan func(repokit.Rows) (T, error)) ([]T, error) {
	dialect := w.wh.Dialect()
	sql, ok := queries[dialect][op]
	if !ok {
		return nil, perr.Newf(perr.ErrorCodeWarehouse, "no %s query for %s", op, dialect)
	}

	var out []T
	start := time.Now()
	err := backoff.Retry(func() error {
		rows, err := w.wh.Query(ctx, sql, w.params(q)...)
		if err != nil {
			return permanentUnless(perr.FromWarehouse(err, "fleet "+op+" query failed"))
		}
		out, err = repokit.CollectRows(rows, scan)
		if err != nil {
			return permanentUnless(perr.FromWarehouse(err, "fleet "+op+" scan failed"))
		}
		return nil
	}, w.retry(ctx))
	w.inst.ObserveQuery(string(dialect), op, time.Since(start))
	if err != nil {
		return nil, perr.WithOp(err, op)
	}
	return out, nil
}

func (w *warehouseSource) Snapshots(ctx context.Context, q Query) ([]SnapshotRow, error) {
	return read(ctx, w, opSnapshots, q, func(r repokit.Rows) (SnapshotRow, error) {
		var (
			s    SnapshotRow
			last *time.Time // NULL when the window has no heartbeat
		)
		if err := r.Scan(&s.DeviceID, &s.BatteryPct, &s.Lat, &s.Lng, &s.UptimeSeconds, &last); err != nil {
			return s, err
		}
		if last != nil {
			s.LastHeartbeat = *last
		}
		return s, nil
	})
}

func (w *warehouseSource) Battery(ctx context.Context, q Query) ([]BatteryRow, error) {
	return read(ctx, w, opBattery, q, func(r repokit.Rows) (BatteryRow, error) {
		var b BatteryRow
		err := r.Scan(&b.DeviceID, &b.Day, &b.AvgPct, &b.MinPct)
		return b, err
	})
}

func (w *warehouseSource) Heartbeats(ctx context.Context, q Query) ([]HeartbeatRow, error) {
	return read(ctx, w, opHeartbeats, q, func(r repokit.Rows) (HeartbeatRow, error) {
		var h HeartbeatRow
		err := r.Scan(&h.Day, &h.Count)
		return h, err
	})
}

func (w *warehouseSource) Locations(ctx context.Context, q Query) ([]LocationRow, error) {
	return read(ctx, w, opLocations, q, func(r repokit.Rows) (LocationRow, error) {
		var l LocationRow
		err := r.Scan(&l.DeviceID, &l.At, &l.Lat, &l.Lng)
		return l, err
	})
}

func (w *warehouseSource) Uptime(ctx context.Context, q Query) ([]UptimeRow, error) {
	return read(ctx, w, opUptime, q, func(r repokit.Rows) (UptimeRow, error) {
		var u UptimeRow
		err := r.Scan(&u.DeviceID, &u.UptimeSeconds)
		return u, err
	})
}
