package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"fleetdash/internal/platform/metrics"
	"fleetdash/internal/platform/net/middleware"
)

// StackOptions tunes the shared middleware stacks
type StackOptions struct {
	CORSOrigins []string
	Metrics     *metrics.Instrumentation
	Timeout     time.Duration // default 30s
	SlowRequest time.Duration // access log warn threshold, default 1s
}

// RootStack is mounted on the root router before any route
// it owns correlation, panic safety and request metrics for every path
func RootStack(o StackOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.RequestLogger,
		middleware.RecoverJSON,
		middleware.Metrics(o.Metrics),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes,
	}
}

// CommonStack returns the per api scope middleware slice
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	slow := o.SlowRequest
	if slow <= 0 {
		slow = time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.NoCache,
		middleware.AccessLog(slow),
		middleware.CORS(o.CORSOrigins),
		middleware.JSONOnly,
		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(timeout),
	}
}
