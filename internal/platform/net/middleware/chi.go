// Package middleware holds the request middlewares the api stacks are built from
package middleware

import (
	"net/http"
	"time"

	pstrings "fleetdash/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// chi stock middlewares, re-exported so callers stay off chi
var (
	RealIP       = chimw.RealIP
	RequestID    = chimw.RequestID
	NoCache      = chimw.NoCache
	StripSlashes = chimw.StripSlashes
	Heartbeat    = chimw.Heartbeat
	JSONOnly     = chimw.AllowContentType("application/json")
)

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Compress gzips or deflates responses at level
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.NewCompressor(level).Handler
}

// CORS lets browser dashboards on origins call the api; no origins means any
func CORS(origins []string) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(origins, []string{"*"}),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}
