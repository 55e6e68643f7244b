package middleware

import (
	"net/http"
	"time"

	"fleetdash/internal/platform/logger"
	pnet "fleetdash/internal/platform/net"

	"github.com/go-chi/chi/v5"
)

// recorder remembers the status and size of what the handler wrote
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func record(w http.ResponseWriter) *recorder {
	return &recorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RequestLogger puts the chi request id where logger.C finds it; mount after RequestID
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), pnet.RequestID(r.Context()))))
	})
}

// AccessLog writes one line per request, at warn once it took slow or longer (0 never warns)
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := record(w)
			start := time.Now()
			next.ServeHTTP(rec, r)
			took := time.Since(start)

			log := logger.C(r.Context())
			ev := log.Info()
			if slow > 0 && took >= slow {
				ev = log.Warn()
			}
			ev.Str("method", r.Method).
				Str("route", routePattern(r)).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int("bytes", rec.bytes).
				Dur("took", took).
				Msg("request")
		})
	}
}

// routePattern is only complete once the router has matched
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
