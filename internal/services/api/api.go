// Package api provides the HTTP API for the application
package api

import (
	"fleetdash/internal/core/pacific"
	"fleetdash/internal/platform/config"
	"fleetdash/internal/platform/logger"
	"fleetdash/internal/platform/metrics"
	phttp "fleetdash/internal/platform/net/http"
	"fleetdash/internal/platform/store"

	"fleetdash/internal/modkit"
	"fleetdash/internal/modkit/httpkit"
	"fleetdash/internal/modkit/module"

	fleetmod "fleetdash/internal/services/api/fleet/module"
	metamod "fleetdash/internal/services/api/meta/module"

	"github.com/prometheus/client_golang/prometheus"
)

// Options are the API options
type Options struct {
	Config  config.Conf
	Store   *store.Store // nil serves the mock fleet
	Logger  *logger.Logger
	Metrics *metrics.Instrumentation
	// Gatherer backs /metrics; nil leaves the route unmounted
	Gatherer       prometheus.Gatherer
	Dates          *pacific.Normalizer
	CORSOrigins    []string
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	var st store.Store
	if opt.Store != nil {
		st = *opt.Store
	}
	log := logger.Named("api")
	if opt.Logger != nil {
		log = opt.Logger
	}

	// shared deps for modules
	deps := modkit.Deps{
		Log:     *log,
		Cfg:     opt.Config,
		PG:      st.PG,
		WH:      st.WH,
		Metrics: opt.Metrics,
		Dates:   opt.Dates,
	}

	stack := httpkit.StackOptions{
		CORSOrigins: opt.CORSOrigins,
		Metrics:     opt.Metrics,
	}
	r.Use(httpkit.RootStack(stack)...)

	// fleet first so meta can read its ports
	builders := []modkit.Builder{fleetmod.New, metamod.New}

	httpkit.MountAPIV1(r, httpkit.CommonStack(stack), func(api httpkit.Router) {
		for _, build := range builders {
			m := build(deps)
			// register each module's ports under its own name for cross-module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(opt.Gatherer))
	}
}
