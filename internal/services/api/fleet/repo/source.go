// Package repo provides telemetry and device registry access for fleet
package repo

import (
	"context"
	"time"

	"fleetdash/internal/core/pacific"
)

// Query is the filter every telemetry read takes
// DeviceID empty means every device
type Query struct {
	Range    pacific.Range
	DeviceID string
}

// Source is the telemetry read surface
type Source interface {
	Name() string
	Snapshots(ctx context.Context, q Query) ([]SnapshotRow, error)
	Battery(ctx context.Context, q Query) ([]BatteryRow, error)
	Heartbeats(ctx context.Context, q Query) ([]HeartbeatRow, error)
	// Locations returns at most LocationsPerDay+1 of the newest pings per zone day
	Locations(ctx context.Context, q Query) ([]LocationRow, error)
	Uptime(ctx context.Context, q Query) ([]UptimeRow, error)
}

// SnapshotRow is the latest state of a device within the window
type SnapshotRow struct {
	DeviceID      string
	BatteryPct    float64
	Lat           float64
	Lng           float64
	UptimeSeconds int64
	LastHeartbeat time.Time // zero when the window has no heartbeat
}

// BatteryRow is a per device per day battery aggregate
type BatteryRow struct {
	DeviceID string
	Day      string
	AvgPct   float64
	MinPct   float64
}

// HeartbeatRow counts heartbeats on one day
// sources may omit days without heartbeats
type HeartbeatRow struct {
	Day   string
	Count int64
}

// LocationRow is one location ping
type LocationRow struct {
	DeviceID string
	At       time.Time
	Lat      float64
	Lng      float64
}

// UptimeRow sums reported uptime per device
type UptimeRow struct {
	DeviceID      string
	UptimeSeconds int64
}
