package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleetdash/internal/core/pacific"
	"fleetdash/internal/modkit/module"
	"fleetdash/internal/platform/config"
	"fleetdash/internal/platform/metrics"
	phttp "fleetdash/internal/platform/net/http"
	"fleetdash/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

func mount(t *testing.T, withMetrics bool) http.Handler {
	t.Helper()
	module.Reset()
	t.Cleanup(module.Reset)

	ref := time.Date(2025, 9, 22, 6, 30, 0, 0, time.UTC)
	opt := Options{
		Config: config.New().Prefix("FLEETDASH_APITEST_"),
		Dates:  pacific.New(pacific.WithClock(func() time.Time { return ref })),
	}
	if withMetrics {
		inst := metrics.New("fleetdash")
		reg := prometheus.NewRegistry()
		reg.MustRegister(inst)
		opt.Metrics, opt.Gatherer = inst, reg
	}

	mux := chi.NewRouter()
	mux.NotFound(phttp.NotFound)
	Mount(phttp.AdaptChi(mux), opt)
	return mux
}

func request(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMount_FleetAndMeta(t *testing.T) {
	testkit.Serial(t)
	h := mount(t, false)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/v1/fleet/range?timeRange=30d", "", http.StatusOK},
		{http.MethodPost, "/api/v1/fleet/heartbeats", `{"timeRange":"7d"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/fleet/range", `{"timeRange":"custom","startDate":"2025-09-02","endDate":"2025-09-01"}`, http.StatusUnprocessableEntity},
		{http.MethodGet, "/api/v1/meta/ready", "", http.StatusOK},
		{http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{http.MethodGet, "/metrics", "", http.StatusNotFound},
	}
	for _, c := range cases {
		rec := request(h, c.method, c.path, c.body)
		if rec.Code != c.want {
			t.Fatalf("%s %s = %d, want %d (%s)", c.method, c.path, rec.Code, c.want, rec.Body.String())
		}
	}
}

func TestMount_ServiceSeesFleet(t *testing.T) {
	testkit.Serial(t)
	h := mount(t, false)

	rec := request(h, http.MethodGet, "/api/v1/meta/service", "")
	var env struct {
		Data struct {
			Today     string `json:"today"`
			Warehouse string `json:"warehouse"`
			Fleet     *struct {
				Source string `json:"source"`
			} `json:"fleet"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Today != "2025-09-21" || env.Data.Warehouse != "mock" {
		t.Fatalf("service = %+v", env.Data)
	}
	if env.Data.Fleet == nil || env.Data.Fleet.Source != "mock" {
		t.Fatalf("fleet info missing")
	}
}

func TestMount_HeartbeatAndMetrics(t *testing.T) {
	testkit.Serial(t)
	h := mount(t, true)

	if rec := request(h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("/health = %d", rec.Code)
	}
	request(h, http.MethodPost, "/api/v1/fleet/uptime", `{"timeRange":"24h"}`)

	rec := request(h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "fleetdash_http_requests_total") || !strings.Contains(body, `route="/api/v1/fleet/uptime"`) {
		t.Fatalf("metrics body missing request series:\n%s", body)
	}
}
