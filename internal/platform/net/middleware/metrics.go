package middleware

import (
	"net/http"
	"time"

	"fleetdash/internal/platform/metrics"
)

// Metrics records request counts and latency by route pattern
// label cardinality stays bounded because raw paths are never used
func Metrics(inst *metrics.Instrumentation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if inst == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := record(w)
			start := time.Now()

			next.ServeHTTP(rec, r)

			inst.ObserveRequest(r.Method, routePattern(r), rec.status, time.Since(start))
		})
	}
}
