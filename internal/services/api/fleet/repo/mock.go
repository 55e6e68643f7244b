package repo

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"fleetdash/internal/core/pacific"

	"github.com/google/uuid"
)

// deviceNS namespaces the stable mock device ids
var deviceNS = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://fleetdash.local/devices"))

// MockDeviceIDs returns n stable device ids
func MockDeviceIDs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = uuid.NewSHA1(deviceNS, []byte(fmt.Sprintf("device-%02d", i+1))).String()
	}
	return out
}

// NewMock returns a deterministic Source over n generated devices
// the same device and day always produce the same series
func NewMock(n int, dates *pacific.Normalizer) Source {
	if n <= 0 {
		n = 1
	}
	if dates == nil {
		dates = pacific.Default()
	}
	return &mockSource{devices: MockDeviceIDs(n), dates: dates}
}

type mockSource struct {
	devices []string
	dates   *pacific.Normalizer
}

func (m *mockSource) Name() string { return "mock" }

// mockDay is everything one device reported on one day
type mockDay struct {
	battery []float64
	beats   []time.Time
	pings   []LocationRow
	uptime  int64
}

func seed(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return int64(h.Sum64())
}

// home is a device's base position somewhere around the bay
func home(dev string) (lat, lng float64) {
	rng := rand.New(rand.NewSource(seed(dev, "home")))
	return 37.2 + rng.Float64()*0.7, -122.5 + rng.Float64()*0.7
}

func (m *mockSource) day(dev string, d pacific.Date) (mockDay, error) {
	start, err := m.dates.StartOf(d)
	if err != nil {
		return mockDay{}, err
	}
	next, err := m.dates.StartOf(d.AddDays(1))
	if err != nil {
		return mockDay{}, err
	}
	length := next.Sub(start)
	rng := rand.New(rand.NewSource(seed(dev, d.String())))

	var out mockDay

	// hourly readings draining until a recharge
	level := 60 + rng.Float64()*40
	hours := int(length / time.Hour)
	out.battery = make([]float64, hours)
	for i := range out.battery {
		level -= rng.Float64() * 4
		if level < 15 {
			level = 100
		}
		out.battery[i] = level
	}

	out.beats = make([]time.Time, 6+rng.Intn(18))
	for i := range out.beats {
		out.beats[i] = start.Add(time.Duration(rng.Int63n(int64(length))))
	}
	sort.Slice(out.beats, func(i, j int) bool { return out.beats[i].Before(out.beats[j]) })

	lat, lng := home(dev)
	out.pings = make([]LocationRow, 1+rng.Intn(3))
	for i := range out.pings {
		out.pings[i] = LocationRow{
			DeviceID: dev,
			At:       start.Add(time.Duration(rng.Int63n(int64(length)))),
			Lat:      lat + (rng.Float64()-0.5)*0.05,
			Lng:      lng + (rng.Float64()-0.5)*0.05,
		}
	}
	sort.Slice(out.pings, func(i, j int) bool { return out.pings[i].At.Before(out.pings[j].At) })

	out.uptime = int64(length.Seconds() * (0.85 + 0.15*rng.Float64()))
	return out, nil
}

func (m *mockSource) selected(q Query) []string {
	if q.DeviceID == "" {
		return m.devices
	}
	for _, d := range m.devices {
		if d == q.DeviceID {
			return []string{d}
		}
	}
	return nil
}

// each calls fn for every selected device and day in ascending order
func (m *mockSource) each(ctx context.Context, q Query, fn func(dev string, d pacific.Date, md mockDay)) error {
	days := q.Range.Days()
	for _, dev := range m.selected(q) {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, d := range days {
			md, err := m.day(dev, d)
			if err != nil {
				return err
			}
			fn(dev, d, md)
		}
	}
	return nil
}

func (m *mockSource) Snapshots(ctx context.Context, q Query) ([]SnapshotRow, error) {
	byDev := map[string]*SnapshotRow{}
	var order []string
	err := m.each(ctx, q, func(dev string, _ pacific.Date, md mockDay) {
		s, ok := byDev[dev]
		if !ok {
			s = &SnapshotRow{DeviceID: dev}
			byDev[dev] = s
			order = append(order, dev)
		}
		// days arrive ascending so the last one wins
		if n := len(md.battery); n > 0 {
			s.BatteryPct = round1(md.battery[n-1])
		}
		if n := len(md.pings); n > 0 {
			s.Lat, s.Lng = md.pings[n-1].Lat, md.pings[n-1].Lng
		}
		if n := len(md.beats); n > 0 {
			s.LastHeartbeat = md.beats[n-1].UTC()
		}
		s.UptimeSeconds += md.uptime
	})
	if err != nil {
		return nil, err
	}
	out := make([]SnapshotRow, 0, len(order))
	for _, dev := range order {
		out = append(out, *byDev[dev])
	}
	return out, nil
}

func (m *mockSource) Battery(ctx context.Context, q Query) ([]BatteryRow, error) {
	var out []BatteryRow
	err := m.each(ctx, q, func(dev string, d pacific.Date, md mockDay) {
		if len(md.battery) == 0 {
			return
		}
		sum, low := 0.0, md.battery[0]
		for _, v := range md.battery {
			sum += v
			if v < low {
				low = v
			}
		}
		out = append(out, BatteryRow{
			DeviceID: dev,
			Day:      d.String(),
			AvgPct:   round1(sum / float64(len(md.battery))),
			MinPct:   round1(low),
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (m *mockSource) Heartbeats(ctx context.Context, q Query) ([]HeartbeatRow, error) {
	var beats []time.Time
	err := m.each(ctx, q, func(_ string, _ pacific.Date, md mockDay) {
		beats = append(beats, md.beats...)
	})
	if err != nil {
		return nil, err
	}
	var out []HeartbeatRow
	for _, c := range pacific.CountByDay(q.Range, beats, m.dates.DateOf) {
		if c.Count > 0 {
			out = append(out, HeartbeatRow{Day: c.Date.String(), Count: int64(c.Count)})
		}
	}
	return out, nil
}

func (m *mockSource) Locations(ctx context.Context, q Query) ([]LocationRow, error) {
	var out []LocationRow
	err := m.each(ctx, q, func(_ string, _ pacific.Date, md mockDay) {
		out = append(out, md.pings...)
	})
	if err != nil {
		return nil, err
	}
	out = latestPerDay(out, m.dates.DateOf, LocationsPerDay+1)
	for i := range out {
		out[i].At = out[i].At.UTC()
	}
	return out, nil
}

// latestPerDay keeps the newest n rows of each zone day, returned oldest first
func latestPerDay(rows []LocationRow, dateOf func(time.Time) pacific.Date, n int) []LocationRow {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].At.After(rows[j].At) })
	kept := make(map[pacific.Date]int)
	out := rows[:0]
	for _, r := range rows {
		d := dateOf(r.At)
		if kept[d] >= n {
			continue
		}
		kept[d]++
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

func (m *mockSource) Uptime(ctx context.Context, q Query) ([]UptimeRow, error) {
	byDev := map[string]int64{}
	err := m.each(ctx, q, func(dev string, _ pacific.Date, md mockDay) {
		byDev[dev] += md.uptime
	})
	if err != nil {
		return nil, err
	}
	out := make([]UptimeRow, 0, len(byDev))
	for _, dev := range m.selected(q) {
		if up, ok := byDev[dev]; ok {
			out = append(out, UptimeRow{DeviceID: dev, UptimeSeconds: up})
		}
	}
	return out, nil
}

func round1(v float64) float64 { return float64(int64(v*10+0.5)) / 10 }
