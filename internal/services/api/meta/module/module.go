// Package module wires the meta endpoints into the API
package module

import (
	"time"

	"fleetdash/internal/core/version"
	modkit "fleetdash/internal/modkit"
	"fleetdash/internal/modkit/httpkit"
	"fleetdash/internal/platform/store"
	str "fleetdash/internal/platform/strings"

	metahttp "fleetdash/internal/services/api/meta/http"
)

// Module serves version, time and readiness
type Module struct {
	built modkit.Built
	deps  metahttp.Deps
}

// New constructs the meta module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return &Module{
		built: modkit.Build("meta", "/meta", opts...),
		deps: metahttp.Deps{
			ServiceName: version.Info().Service,
			StartedAt:   time.Now(),
			Dates:       deps.Normalizer(),
			Warehouse:   warehouseName(deps.WH),
			Checks:      checks(deps),
		},
	}
}

func warehouseName(wh store.Warehouse) string {
	if wh == nil {
		return "mock"
	}
	return string(wh.Dialect())
}

// checks lists pg then the warehouse; missing stores report skipped
func checks(d modkit.Deps) []metahttp.Check {
	pg := metahttp.Check{Name: "pg"}
	if p, ok := d.PG.(store.Pinger); ok {
		pg.Ping = p.Ping
	}
	wh := metahttp.Check{Name: "warehouse"}
	if d.WH != nil {
		wh.Name = string(d.WH.Dialect())
		wh.Ping = d.WH.Ping
	}
	return []metahttp.Check{pg, wh}
}

// MountRoutes mounts the meta endpoints under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

func (m *Module) Name() string   { return str.MustString(m.built.Name, "meta") }
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Ports is nil, meta only consumes other modules' ports
func (m *Module) Ports() any { return nil }
