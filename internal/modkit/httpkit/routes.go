// Package httpkit is the routing surface modules mount against
// so they never import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "fleetdash/internal/platform/net/http"
)

// Router is the platform router seam
type Router = phttp.Router

// MountUnder mounts a subrouter at prefix with per module middleware
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPIV1 scopes every module under /api/v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/v1", mw, mount)
}
