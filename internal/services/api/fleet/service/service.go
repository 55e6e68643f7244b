// Package service contains fleet workflows
package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"fleetdash/internal/core/pacific"
	perr "fleetdash/internal/platform/errors"
	"fleetdash/internal/platform/logger"
	"fleetdash/internal/platform/metrics"
	"fleetdash/internal/services/api/fleet/domain"
	"fleetdash/internal/services/api/fleet/repo"

	"github.com/patrickmn/go-cache"
)

// DefaultMaxCustomDays bounds a custom range
const DefaultMaxCustomDays = 400

// Service defines the fleet service contract
type Service interface {
	domain.ServicePort
}

// Options tune a Svc
type Options struct {
	// CacheTTL keeps source results per window and device; 0 disables the cache
	CacheTTL time.Duration
	// MaxCustomDays rejects longer custom ranges; 0 means DefaultMaxCustomDays
	MaxCustomDays int
	Metrics       *metrics.Instrumentation
}

// Svc implements the fleet service
type Svc struct {
	src     repo.Source
	reg     repo.Registry
	dates   *pacific.Normalizer
	cache   *cache.Cache
	inst    *metrics.Instrumentation
	maxDays int
}

var _ Service = (*Svc)(nil)

// New constructs a fleet service
func New(src repo.Source, reg repo.Registry, dates *pacific.Normalizer, opt Options) *Svc {
	if src == nil {
		panic("fleet.Service requires a non nil Source")
	}
	if reg == nil {
		panic("fleet.Service requires a non nil Registry")
	}
	if dates == nil {
		dates = pacific.Default()
	}
	s := &Svc{src: src, reg: reg, dates: dates, inst: opt.Metrics, maxDays: opt.MaxCustomDays}
	if s.maxDays <= 0 {
		s.maxDays = DefaultMaxCustomDays
	}
	if opt.CacheTTL > 0 {
		s.cache = cache.New(opt.CacheTTL, 2*opt.CacheTTL)
	}
	return s
}

// MaxCustomDays reports the custom range limit in effect
func (s *Svc) MaxCustomDays() int { return s.maxDays }

// window resolves the request into a zone date range
func (s *Svc) window(ctx context.Context, in domain.RangeInput) (pacific.Range, pacific.Token, error) {
	raw := strings.TrimSpace(in.TimeRange)
	tok := pacific.ParseToken(raw)
	if raw != "" && !pacific.Token(strings.ToLower(raw)).Known() {
		logger.C(ctx).Debug().Str("timeRange", raw).Msg("unknown time range, using 24h")
	}

	r, err := s.dates.RangeFor(tok, pacific.Between(in.StartDate, in.EndDate))
	if err != nil {
		return pacific.Range{}, tok, err
	}
	if tok == pacific.TokenCustom && r.Len() > s.maxDays {
		return pacific.Range{}, tok, perr.WithField(
			perr.Wrapf(pacific.ErrInvalidRange, perr.ErrorCodeInvalidArgument,
				"custom range spans %d days, at most %d allowed", r.Len(), s.maxDays),
			"endDate",
		)
	}
	return r, tok, nil
}

func (s *Svc) resolved(r pacific.Range, tok pacific.Token) domain.ResolvedRange {
	return domain.ResolvedRange{
		TimeRange: tok,
		StartDate: r.Start,
		EndDate:   r.End,
		Timezone:  s.dates.Location().String(),
		Days:      r.Days(),
	}
}

// cached serves load through the ttl cache keyed by op, window and device
func cached[T any](s *Svc, op string, q repo.Query, load func() ([]T, error)) ([]T, error) {
	if s.cache == nil {
		return load()
	}
	key := op + "|" + q.Range.Start.String() + "|" + q.Range.End.String() + "|" + q.DeviceID
	if v, ok := s.cache.Get(key); ok {
		if rows, ok := v.([]T); ok {
			s.inst.CacheHit(op, true)
			return rows, nil
		}
	}
	s.inst.CacheHit(op, false)
	rows, err := load()
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, rows)
	return rows, nil
}

// Resolve returns the window a request covers
func (s *Svc) Resolve(ctx context.Context, in domain.RangeInput) (domain.ResolvedRange, error) {
	r, tok, err := s.window(ctx, in)
	if err != nil {
		return domain.ResolvedRange{}, err
	}
	return s.resolved(r, tok), nil
}

// Devices returns the latest snapshot per device joined with the registry
func (s *Svc) Devices(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.Device], error) {
	r, tok, err := s.window(ctx, in)
	if err != nil {
		return domain.Envelope[domain.Device]{}, err
	}
	q := repo.Query{Range: r, DeviceID: in.DeviceID}
	snaps, err := cached(s, "snapshots", q, func() ([]repo.SnapshotRow, error) { return s.src.Snapshots(ctx, q) })
	if err != nil {
		return domain.Envelope[domain.Device]{}, err
	}
	regs, err := s.reg.Devices(ctx)
	if err != nil {
		return domain.Envelope[domain.Device]{}, err
	}

	byID := make(map[string]domain.Device, len(regs)+len(snaps))
	for _, d := range regs {
		if in.DeviceID != "" && d.ID != in.DeviceID {
			continue
		}
		byID[d.ID] = domain.Device{ID: d.ID, Name: d.Name, Site: d.Site}
	}
	for _, sn := range snaps {
		d, ok := byID[sn.DeviceID]
		if !ok {
			d = domain.Device{ID: sn.DeviceID, Name: sn.DeviceID}
		}
		d.BatteryPct = sn.BatteryPct
		d.Lat, d.Lng = sn.Lat, sn.Lng
		d.UptimeSeconds = sn.UptimeSeconds
		if heartbeatKnown(sn.LastHeartbeat) {
			d.LastHeartbeat = sn.LastHeartbeat.UTC()
			d.LastSeen = s.dates.DateOf(sn.LastHeartbeat)
		}
		byID[sn.DeviceID] = d
	}

	out := make([]domain.Device, 0, len(byID))
	for _, d := range byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return domain.Envelope[domain.Device]{Range: s.resolved(r, tok), Rows: out}, nil
}

// Battery returns per device per day battery levels
func (s *Svc) Battery(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.BatteryDay], error) {
	r, tok, err := s.window(ctx, in)
	if err != nil {
		return domain.Envelope[domain.BatteryDay]{}, err
	}
	q := repo.Query{Range: r, DeviceID: in.DeviceID}
	rows, err := cached(s, "battery", q, func() ([]repo.BatteryRow, error) { return s.src.Battery(ctx, q) })
	if err != nil {
		return domain.Envelope[domain.BatteryDay]{}, err
	}
	out := make([]domain.BatteryDay, 0, len(rows))
	for _, b := range rows {
		out = append(out, domain.BatteryDay{
			DeviceID: b.DeviceID,
			Date:     pacific.Date(b.Day),
			AvgPct:   b.AvgPct,
			MinPct:   b.MinPct,
		})
	}
	return domain.Envelope[domain.BatteryDay]{Range: s.resolved(r, tok), Rows: out}, nil
}

// Heartbeats returns one count per day of the window, zero days included
func (s *Svc) Heartbeats(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.HeartbeatDay], error) {
	r, tok, err := s.window(ctx, in)
	if err != nil {
		return domain.Envelope[domain.HeartbeatDay]{}, err
	}
	q := repo.Query{Range: r, DeviceID: in.DeviceID}
	rows, err := cached(s, "heartbeats", q, func() ([]repo.HeartbeatRow, error) { return s.src.Heartbeats(ctx, q) })
	if err != nil {
		return domain.Envelope[domain.HeartbeatDay]{}, err
	}
	counts := make(map[pacific.Date]int64, len(rows))
	for _, h := range rows {
		counts[pacific.Date(h.Day)] += h.Count
	}
	days := r.Days()
	out := make([]domain.HeartbeatDay, len(days))
	for i, d := range days {
		out[i] = domain.HeartbeatDay{Date: d, Count: counts[d]}
	}
	return domain.Envelope[domain.HeartbeatDay]{Range: s.resolved(r, tok), Rows: out}, nil
}

// Locations returns pings bucketed by zone day, empty days included
func (s *Svc) Locations(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.LocationDay], error) {
	r, tok, err := s.window(ctx, in)
	if err != nil {
		return domain.Envelope[domain.LocationDay]{}, err
	}
	q := repo.Query{Range: r, DeviceID: in.DeviceID}
	rows, err := cached(s, "locations", q, func() ([]repo.LocationRow, error) { return s.src.Locations(ctx, q) })
	if err != nil {
		return domain.Envelope[domain.LocationDay]{}, err
	}
	pings := make([]domain.LocationPing, 0, len(rows))
	for _, l := range rows {
		pings = append(pings, domain.LocationPing{DeviceID: l.DeviceID, At: l.At.UTC(), Lat: l.Lat, Lng: l.Lng})
	}
	sort.SliceStable(pings, func(i, j int) bool { return pings[i].At.Before(pings[j].At) })
	buckets := pacific.BucketByDay(r, pings, func(p domain.LocationPing) pacific.Date { return s.dates.DateOf(p.At) })

	// a source hands back one ping over the cap when a day had more
	var cut []pacific.Date
	for i := range buckets {
		b := &buckets[i]
		if b.Count > repo.LocationsPerDay {
			b.Items = b.Items[b.Count-repo.LocationsPerDay:]
			b.Count = repo.LocationsPerDay
			cut = append(cut, b.Date)
		}
	}
	if len(cut) > 0 {
		logger.C(ctx).Debug().Int("days", len(cut)).Int("per_day", repo.LocationsPerDay).Msg("locations capped")
	}
	return domain.Envelope[domain.LocationDay]{Range: s.resolved(r, tok), Rows: buckets, Truncated: cut}, nil
}

// Uptime returns per device uptime and availability over the window
func (s *Svc) Uptime(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.Uptime], error) {
	r, tok, err := s.window(ctx, in)
	if err != nil {
		return domain.Envelope[domain.Uptime]{}, err
	}
	q := repo.Query{Range: r, DeviceID: in.DeviceID}
	rows, err := cached(s, "uptime", q, func() ([]repo.UptimeRow, error) { return s.src.Uptime(ctx, q) })
	if err != nil {
		return domain.Envelope[domain.Uptime]{}, err
	}
	window, err := s.windowSeconds(r)
	if err != nil {
		return domain.Envelope[domain.Uptime]{}, err
	}
	out := make([]domain.Uptime, 0, len(rows))
	for _, u := range rows {
		out = append(out, domain.Uptime{
			DeviceID:      u.DeviceID,
			UptimeSeconds: u.UptimeSeconds,
			WindowSeconds: window,
			Availability:  availability(u.UptimeSeconds, window),
		})
	}
	return domain.Envelope[domain.Uptime]{Range: s.resolved(r, tok), Rows: out}, nil
}

// windowSeconds is the wall length of the range in the zone, so DST days count 23 or 25 hours
func (s *Svc) windowSeconds(r pacific.Range) (int64, error) {
	start, err := s.dates.StartOf(r.Start)
	if err != nil {
		return 0, err
	}
	end, err := s.dates.StartOf(r.End.AddDays(1))
	if err != nil {
		return 0, err
	}
	return int64(end.Sub(start) / time.Second), nil
}

// heartbeatKnown rejects the zero time and the epoch some warehouses return for "never"
func heartbeatKnown(t time.Time) bool { return !t.IsZero() && t.Unix() > 0 }

func availability(up, window int64) float64 {
	if window <= 0 {
		return 0
	}
	v := float64(up) / float64(window)
	v = math.Max(0, math.Min(1, v))
	return math.Round(v*10000) / 10000
}
