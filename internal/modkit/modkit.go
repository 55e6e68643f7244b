// Package modkit is the glue feature modules build on
package modkit

import (
	phttp "fleetdash/internal/platform/net/http"
)

// Module is what the api needs from a feature module
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	// Ports is registered under Name for cross module lookups, nil when there are none
	Ports() any
}

// Builder is the constructor every module exports
type Builder func(Deps, ...Option) Module
