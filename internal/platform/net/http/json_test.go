package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "fleetdash/internal/platform/errors"
)

type windowIn struct {
	TimeRange string `json:"timeRange" validate:"max=16"`
}

func echo(_ *http.Request, in windowIn) (any, error) {
	if in.TimeRange == "boom" {
		return nil, perr.New(perr.ErrorCodeWarehouse, "warehouse unavailable")
	}
	return map[string]string{"timeRange": in.TimeRange}, nil
}

func TestBoundHandlers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		h      Handler
		req    *http.Request
		status int
		want   string
	}{
		{"json ok", JSONHandler(echo), httptest.NewRequest(http.MethodPost, "/range", strings.NewReader(`{"timeRange":"90d"}`)), 200, `"timeRange":"90d"`},
		{"json malformed", JSONHandler(echo), httptest.NewRequest(http.MethodPost, "/range", strings.NewReader(`{`)), 400, "invalid JSON"},
		{"handler error", JSONHandler(echo), httptest.NewRequest(http.MethodPost, "/range", strings.NewReader(`{"timeRange":"boom"}`)), 502, "warehouse unavailable"},
		{"query ok", QueryHandler(echo), httptest.NewRequest(http.MethodGet, "/range?timeRange=30d", nil), 200, `"timeRange":"30d"`},
		{"query unknown key", QueryHandler(echo), httptest.NewRequest(http.MethodGet, "/range?nope=1", nil), 400, "unknown field"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c.h(rr, c.req)
			if rr.Code != c.status || !strings.Contains(rr.Body.String(), c.want) {
				t.Fatalf("code=%d body=%q", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestBoundHandlers_SkipHandlerOnBindError(t *testing.T) {
	t.Parallel()

	called := false
	h := JSONHandler(func(*http.Request, windowIn) (any, error) {
		called = true
		return nil, errors.New("unreachable")
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/range", strings.NewReader(`{"timeRange":"`+strings.Repeat("y", 20)+`"}`)))
	if called {
		t.Fatalf("handler ran despite validation failure")
	}
}
