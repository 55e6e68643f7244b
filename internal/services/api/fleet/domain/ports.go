package domain

import (
	"context"
	"time"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Resolve(ctx context.Context, in RangeInput) (ResolvedRange, error)
	Devices(ctx context.Context, in RangeInput) (Envelope[Device], error)
	Battery(ctx context.Context, in RangeInput) (Envelope[BatteryDay], error)
	Heartbeats(ctx context.Context, in RangeInput) (Envelope[HeartbeatDay], error)
	Locations(ctx context.Context, in RangeInput) (Envelope[LocationDay], error)
	Uptime(ctx context.Context, in RangeInput) (Envelope[Uptime], error)
}

// Info describes how the fleet module is backed
type Info struct {
	Source   string        `json:"source"`
	Registry string        `json:"registry"`
	Timezone string        `json:"timezone"`
	CacheTTL time.Duration `json:"-"`
	MaxDays  int           `json:"maxCustomDays"`
}

// InfoPort is what the meta module reads from the fleet module
type InfoPort interface {
	Info() Info
}
