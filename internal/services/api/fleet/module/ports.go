package module

import (
	"context"

	"fleetdash/internal/services/api/fleet/domain"
	fleetsvc "fleetdash/internal/services/api/fleet/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptFleetPort satisfies domain.ServicePort and domain.InfoPort
type adaptFleetPort struct {
	svc  fleetsvc.Service
	info domain.Info
}

var (
	_ domain.ServicePort = adaptFleetPort{}
	_ domain.InfoPort    = adaptFleetPort{}
)

func (a adaptFleetPort) Info() domain.Info { return a.info }

func (a adaptFleetPort) Resolve(ctx context.Context, in domain.RangeInput) (domain.ResolvedRange, error) {
	return a.svc.Resolve(ctx, in)
}

func (a adaptFleetPort) Devices(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.Device], error) {
	return a.svc.Devices(ctx, in)
}

func (a adaptFleetPort) Battery(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.BatteryDay], error) {
	return a.svc.Battery(ctx, in)
}

func (a adaptFleetPort) Heartbeats(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.HeartbeatDay], error) {
	return a.svc.Heartbeats(ctx, in)
}

func (a adaptFleetPort) Locations(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.LocationDay], error) {
	return a.svc.Locations(ctx, in)
}

func (a adaptFleetPort) Uptime(ctx context.Context, in domain.RangeInput) (domain.Envelope[domain.Uptime], error) {
	return a.svc.Uptime(ctx, in)
}
