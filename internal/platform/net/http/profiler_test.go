package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetdash/internal/platform/config"
	phttp "fleetdash/internal/platform/net/http"
)

func TestMountProfiler(t *testing.T) {
	cases := []struct {
		enabled bool
		path    string
		want    []int
	}{
		{true, "/debug/pprof/", []int{http.StatusOK}},
		{true, "/debug/pprof/cmdline", []int{http.StatusOK}},
		{true, "/debug", []int{http.StatusMovedPermanently, http.StatusPermanentRedirect, http.StatusNotFound}},
		{false, "/debug/pprof/", []int{http.StatusNotFound}},
	}
	for _, c := range cases {
		r := phttp.NewServer(config.New().Prefix("FLEETDASH_PPROFTEST_UNSET_")).Router()
		phttp.MountProfiler(r, "/debug", c.enabled)

		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, c.path, nil))
		ok := false
		for _, w := range c.want {
			ok = ok || rec.Code == w
		}
		if !ok {
			t.Fatalf("enabled=%v GET %s = %d, want one of %v", c.enabled, c.path, rec.Code, c.want)
		}
	}
}
