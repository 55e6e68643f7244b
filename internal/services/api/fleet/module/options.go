package module

import (
	"time"

	"fleetdash/internal/platform/config"
	"fleetdash/internal/services/api/fleet/service"
)

// Options configure the fleet module
type Options struct {
	CacheTTL      time.Duration
	MockDevices   int
	MaxCustomDays int
}

// FromConfig reads FLEET_* keys
func FromConfig(c config.Conf) Options {
	f := c.Prefix("FLEET_")
	return Options{
		CacheTTL:      f.MayDuration("CACHE_TTL", 5*time.Minute),
		MockDevices:   f.MayInt("MOCK_DEVICES", 12),
		MaxCustomDays: f.MayInt("MAX_CUSTOM_DAYS", service.DefaultMaxCustomDays),
	}
}
