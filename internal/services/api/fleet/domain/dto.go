// Package domain holds DTOs for fleet http and service contracts
package domain

import (
	"time"

	"fleetdash/internal/core/pacific"
)

// RangeInput is the request every fleet endpoint accepts
// dates are YYYY-MM-DD and only read when timeRange is custom
type RangeInput struct {
	TimeRange string `json:"timeRange,omitempty" validate:"omitempty,max=16" example:"7d"`
	StartDate string `json:"startDate,omitempty" validate:"omitempty,max=10" example:"2025-09-01"`
	EndDate   string `json:"endDate,omitempty" validate:"omitempty,max=10" example:"2025-09-30"`
	DeviceID  string `json:"deviceId,omitempty" validate:"omitempty,device_id" example:"van-07"`
}

// ResolvedRange is the window a request resolved to
type ResolvedRange struct {
	TimeRange pacific.Token  `json:"timeRange"`
	StartDate pacific.Date   `json:"startDate"`
	EndDate   pacific.Date   `json:"endDate"`
	Timezone  string         `json:"timezone"`
	Days      []pacific.Date `json:"days"`
}

// Device is the latest known state of one device in the window
type Device struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Site          string       `json:"site"`
	BatteryPct    float64      `json:"batteryPct"`
	Lat           float64      `json:"lat"`
	Lng           float64      `json:"lng"`
	UptimeSeconds int64        `json:"uptimeSeconds"`
	LastHeartbeat time.Time    `json:"lastHeartbeat"`
	LastSeen      pacific.Date `json:"lastSeen"`
}

// BatteryDay is one device's battery summary for one day
type BatteryDay struct {
	DeviceID string       `json:"deviceId"`
	Date     pacific.Date `json:"date"`
	AvgPct   float64      `json:"avgPct"`
	MinPct   float64      `json:"minPct"`
}

// HeartbeatDay counts heartbeats on one day; days without any are present with 0
type HeartbeatDay struct {
	Date  pacific.Date `json:"date"`
	Count int64        `json:"count"`
}

// LocationPing is a single reported position
type LocationPing struct {
	DeviceID string    `json:"deviceId"`
	At       time.Time `json:"at"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
}

// LocationDay groups pings by zone day
type LocationDay = pacific.Bucket[LocationPing]

// Uptime is a device's uptime over the window
type Uptime struct {
	DeviceID      string  `json:"deviceId"`
	UptimeSeconds int64   `json:"uptimeSeconds"`
	WindowSeconds int64   `json:"windowSeconds"`
	Availability  float64 `json:"availability"`
}

// Envelope pairs a result with the window it covers
type Envelope[T any] struct {
	Range ResolvedRange `json:"range"`
	Rows  []T           `json:"rows"`
	// Truncated lists days whose rows were capped
	Truncated []pacific.Date `json:"truncated,omitempty"`
}
