// Package module wires fleet into the API using modkit
package module

import (
	modkit "fleetdash/internal/modkit"
	"fleetdash/internal/modkit/httpkit"
	"fleetdash/internal/modkit/repokit"
	str "fleetdash/internal/platform/strings"
	"fleetdash/internal/services/api/fleet/domain"
	fleethttp "fleetdash/internal/services/api/fleet/http"
	fleetrepo "fleetdash/internal/services/api/fleet/repo"
	fleetsvc "fleetdash/internal/services/api/fleet/service"
)

// Module implements the fleet module
type Module struct {
	built modkit.Built
	ports any

	svc  fleetsvc.Service
	info domain.Info
}

// New constructs the fleet module with options read from deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return NewWithOptions(deps, FromConfig(deps.Cfg), opts...)
}

// NewWithOptions constructs the fleet module
// the warehouse backs telemetry when deps.WH is set, the mock generator otherwise
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build("fleet", "/fleet", opts...)

	dates := deps.Normalizer()
	tz := dates.Location().String()

	// mock names only go with mock telemetry; real devices are never padded with them
	var (
		src     fleetrepo.Source
		reg     fleetrepo.Registry
		regName string
	)
	if deps.WH != nil {
		src = fleetrepo.NewWarehouse(deps.WH, tz, deps.Metrics)
		reg, regName = fleetrepo.NewStaticRegistry(), "none"
	} else {
		src = fleetrepo.NewMock(o.MockDevices, dates)
		reg, regName = fleetrepo.NewMockRegistry(fleetrepo.MockDeviceIDs(o.MockDevices)), "mock"
	}
	if deps.PG != nil {
		reg = fleetrepo.WithFallback(repokit.MustBind(fleetrepo.NewPG(), deps.PG), reg)
		regName = "postgres"
	}

	svc := fleetsvc.New(src, reg, dates, fleetsvc.Options{
		CacheTTL:      o.CacheTTL,
		MaxCustomDays: o.MaxCustomDays,
		Metrics:       deps.Metrics,
	})

	m := &Module{
		built: b,
		svc:   svc,
		info: domain.Info{
			Source:   src.Name(),
			Registry: regName,
			Timezone: tz,
			CacheTTL: o.CacheTTL,
			MaxDays:  svc.MaxCustomDays(),
		},
	}
	m.ports = adaptFleetPort{svc: svc, info: m.info}

	deps.Log.Info().
		Str("source", m.info.Source).
		Str("registry", regName).
		Str("tz", tz).
		Dur("cache_ttl", o.CacheTTL).
		Msg("fleet module ready")

	return m
}

// MountRoutes mounts the fleet endpoints under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { fleethttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Info describes the module backing
func (m *Module) Info() domain.Info { return m.info }
