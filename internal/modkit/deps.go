package modkit

import (
	"fleetdash/internal/core/pacific"
	"fleetdash/internal/platform/config"
	"fleetdash/internal/platform/logger"
	"fleetdash/internal/platform/metrics"
	"fleetdash/internal/platform/store"
)

// Deps is what every module constructor receives
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      store.RowQuerier // nil when postgres is disabled
	WH      store.Warehouse  // nil in mock mode
	Metrics *metrics.Instrumentation
	Dates   *pacific.Normalizer
}

// Normalizer returns Dates or the package default
func (d Deps) Normalizer() *pacific.Normalizer {
	if d.Dates != nil {
		return d.Dates
	}
	return pacific.Default()
}
