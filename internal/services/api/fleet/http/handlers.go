// Package http provides http transport for fleet
package http

import (
	stdhttp "net/http"

	"fleetdash/internal/modkit/httpkit"
	"fleetdash/internal/services/api/fleet/domain"
)

// Register mounts fleet endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// range resolution, query string or body
	httpkit.GetQuery[domain.RangeInput](r, "/range", h.resolve)
	httpkit.PostJSON[domain.RangeInput](r, "/range", h.resolve)

	httpkit.PostJSON[domain.RangeInput](r, "/devices", h.devices)
	httpkit.PostJSON[domain.RangeInput](r, "/battery", h.battery)
	httpkit.PostJSON[domain.RangeInput](r, "/heartbeats", h.heartbeats)
	httpkit.PostJSON[domain.RangeInput](r, "/locations", h.locations)
	httpkit.PostJSON[domain.RangeInput](r, "/uptime", h.uptime)
}

type handlers struct{ svc domain.ServicePort }

// resolve answers GET and POST /fleet/range
func (h *handlers) resolve(r *stdhttp.Request, in domain.RangeInput) (any, error) {
	return h.svc.Resolve(r.Context(), in)
}

func (h *handlers) devices(r *stdhttp.Request, in domain.RangeInput) (any, error) {
	return h.svc.Devices(r.Context(), in)
}

func (h *handlers) battery(r *stdhttp.Request, in domain.RangeInput) (any, error) {
	return h.svc.Battery(r.Context(), in)
}

// heartbeats always returns one row per day of the window
func (h *handlers) heartbeats(r *stdhttp.Request, in domain.RangeInput) (any, error) {
	return h.svc.Heartbeats(r.Context(), in)
}

func (h *handlers) locations(r *stdhttp.Request, in domain.RangeInput) (any, error) {
	return h.svc.Locations(r.Context(), in)
}

func (h *handlers) uptime(r *stdhttp.Request, in domain.RangeInput) (any, error) {
	return h.svc.Uptime(r.Context(), in)
}
