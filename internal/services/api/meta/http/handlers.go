// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"fleetdash/internal/core/pacific"
	"fleetdash/internal/core/version"
	"fleetdash/internal/modkit/httpkit"
	"fleetdash/internal/modkit/module"
	fleetdomain "fleetdash/internal/services/api/fleet/domain"
)

// Check is a named readiness probe; a nil Ping is reported as skipped
type Check struct {
	Name string
	Ping func(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Dates       *pacific.Normalizer
	Warehouse   string
	Checks      []Check
	// ReadyTimeout bounds all checks together (0 means 2s)
	ReadyTimeout time.Duration
	Now          func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Dates == nil {
		d.Dates = pacific.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Started   string            `json:"started"`
	Uptime    int64             `json:"uptime"`
	Timezone  string            `json:"timezone"`
	Today     pacific.Date      `json:"today"`
	Warehouse string            `json:"warehouse"`
	Fleet     *fleetdomain.Info `json:"fleet,omitempty"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ready always answers 200; the status field carries the verdict
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), h.deps.ReadyTimeout)
	defer cancel()

	overall := "ok"
	checks := make([]ReadyCheck, 0, len(h.deps.Checks))
	for _, c := range h.deps.Checks {
		rc := ReadyCheck{Name: c.Name, Status: "skipped"}
		if c.Ping != nil {
			if err := c.Ping(ctx); err != nil {
				rc.Status, rc.Error = "fail", err.Error()
				overall = "fail"
			} else {
				rc.Status = "ok"
			}
		}
		checks = append(checks, rc)
	}

	return ReadyResponse{
		Status: overall,
		Checks: checks,
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	now := h.deps.Now()
	out := ServiceResponse{
		Name:      h.deps.ServiceName,
		Version:   version.Info().Version,
		Started:   h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:    int64(now.Sub(h.deps.StartedAt) / time.Second),
		Timezone:  h.deps.Dates.Location().String(),
		Today:     h.deps.Dates.DateOf(now),
		Warehouse: h.deps.Warehouse,
	}
	// fleet registers its ports while the api mounts
	if p, ok := module.PortsAs[fleetdomain.InfoPort]("fleet"); ok {
		info := p.Info()
		out.Fleet = &info
	}
	return out, nil
}
