package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "fleetdash/internal/platform/errors"
)

type rangeReq struct {
	TimeRange string `json:"timeRange" validate:"max=16"`
	StartDate string `json:"startDate" validate:"max=10"`
	DeviceID  string `json:"deviceId" validate:"omitempty,device_id"`
	Internal  string `json:"-"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/fleet/battery", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		body  string
		code  perr.ErrorCode
		field string
		msg   string
	}{
		{"ok", `{"timeRange":"7d","deviceId":"van-07"}`, 0, "", ""},
		{"empty", "  ", perr.ErrorCodeJSON, "", "empty body"},
		{"malformed", `{`, perr.ErrorCodeJSON, "", "invalid JSON"},
		{"unknown field", `{"timezone":"UTC"}`, perr.ErrorCodeJSON, "", "unknown field"},
		{"dash tag is not bindable", `{"Internal":"x"}`, perr.ErrorCodeJSON, "", "unknown field"},
		{"trailing data", `{"timeRange":"7d"} {"timeRange":"1y"}`, perr.ErrorCodeJSON, "", "trailing"},
		{"too long", `{"timeRange":"` + strings.Repeat("x", 17) + `"}`, perr.ErrorCodeValidation, "timeRange", "timeRange must be at most 16 characters"},
		{"bad device", `{"deviceId":"../etc"}`, perr.ErrorCodeValidation, "deviceId", "deviceId must be a device id"},
		{"oversized", `{"timeRange":"` + strings.Repeat(" ", maxBody) + `"}`, perr.ErrorCodeJSON, "", "exceeds"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseJSON[rangeReq](post(c.body))
			if c.code == 0 {
				if err != nil || got.TimeRange != "7d" || got.DeviceID != "van-07" {
					t.Fatalf("got %+v, %v", got, err)
				}
				return
			}
			if perr.CodeOf(err) != c.code {
				t.Fatalf("code = %v (%v)", perr.CodeOf(err), err)
			}
			e, _ := perr.As(err)
			if e.Field() != c.field || !strings.Contains(err.Error(), c.msg) {
				t.Fatalf("field = %q err = %q", e.Field(), err.Error())
			}
		})
	}
}

func TestParseQuery(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/fleet/range?timeRange=30d&timeRange=1y&startDate=2025-09-01", nil)
	got, err := ParseQuery[rangeReq](req)
	if err != nil || got.TimeRange != "30d" || got.StartDate != "2025-09-01" {
		t.Fatalf("got %+v, %v", got, err)
	}

	if got, err := ParseQuery[rangeReq](httptest.NewRequest(http.MethodGet, "/fleet/range", nil)); err != nil || got != (rangeReq{}) {
		t.Fatalf("empty query = %+v, %v", got, err)
	}
	if _, err := ParseQuery[rangeReq](httptest.NewRequest(http.MethodGet, "/fleet/range?tz=UTC", nil)); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("unknown key = %v", err)
	}
	_, err = ParseQuery[rangeReq](httptest.NewRequest(http.MethodGet, "/fleet/range?startDate=2025-09-01T00:00", nil))
	if e, ok := perr.As(err); !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "startDate" {
		t.Fatalf("validation = %v", err)
	}
}

func TestParseJSON_NonStructTarget(t *testing.T) {
	t.Parallel()

	if _, err := ParseJSON[[]string](post(`["a"]`)); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected validation error for slice target, got %v", err)
	}
}
