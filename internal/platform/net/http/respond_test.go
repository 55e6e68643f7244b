package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "fleetdash/internal/platform/errors"
	pnet "fleetdash/internal/platform/net"
	phttp "fleetdash/internal/platform/net/http"
)

func withReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func envelopeOf(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type %q", ct)
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestHandle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		resp   phttp.Response
		status int
		code   perr.ErrorCode
		field  string
	}{
		{"ok", phttp.OK([]string{"2025-09-21"}), http.StatusOK, 0, ""},
		{"zero status defaults to ok", phttp.Response{Body: "x"}, http.StatusOK, 0, ""},
		{"invalid range", phttp.Error(perr.WithField(perr.InvalidArgf("startDate after endDate"), "startDate")),
			http.StatusUnprocessableEntity, perr.ErrorCodeInvalidArgument, "startDate"},
		{"warehouse", phttp.Error(perr.New(perr.ErrorCodeWarehouse, "bigquery failed")), http.StatusBadGateway, perr.ErrorCodeWarehouse, ""},
		{"foreign error", phttp.Error(errors.New("boom")), http.StatusInternalServerError, perr.ErrorCodeUnknown, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			phttp.Handle(func(*http.Request) phttp.Response { return c.resp })(rec, withReqID(http.MethodPost, "/fleet/battery", "rid-1"))

			if rec.Code != c.status {
				t.Fatalf("status = %d, want %d", rec.Code, c.status)
			}
			env := envelopeOf(t, rec)
			if env.StatusCode != c.status || env.RequestID != "rid-1" || env.Code != c.code || env.Field != c.field {
				t.Fatalf("envelope = %+v", env)
			}
			if (c.status == http.StatusOK) != (env.Data != nil && env.Error == "") {
				t.Fatalf("data/error mismatch: %+v", env)
			}
		})
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	phttp.NotFound(rec, withReqID(http.MethodGet, "/fleet/nope", "rid-2"))
	if env := envelopeOf(t, rec); rec.Code != http.StatusNotFound || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("404: %d %+v", rec.Code, env)
	}

	rec = httptest.NewRecorder()
	phttp.MethodNotAllowed(rec, withReqID(http.MethodDelete, "/fleet/range", ""))
	if env := envelopeOf(t, rec); rec.Code != http.StatusMethodNotAllowed || env.Code != perr.ErrorCodeMethodNotAllowed {
		t.Fatalf("405: %d %+v", rec.Code, env)
	}
}
