package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
	"google.golang.org/api/googleapi"
)

func TestWarehouseErrorCode_BigQuery(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorCode
	}{
		{404, ErrorCodeNotFound},
		{400, ErrorCodeInvalidArgument},
		{403, ErrorCodeUnavailable},
		{429, ErrorCodeTooManyRequests},
		{503, ErrorCodeUnavailable},
		{409, ErrorCodeWarehouse},
	}
	for _, c := range cases {
		err := fmt.Errorf("query: %w", &googleapi.Error{Code: c.status, Message: "x"})
		got, ok := WarehouseErrorCode(err)
		if !ok || got != c.want {
			t.Fatalf("status %d -> %v (ok=%v), want %v", c.status, got, ok, c.want)
		}
	}
}

func TestWarehouseErrorCode_ClickHouse(t *testing.T) {
	cases := []struct {
		code int32
		want ErrorCode
	}{
		{60, ErrorCodeNotFound},
		{62, ErrorCodeWarehouse},
		{202, ErrorCodeTooManyRequests},
		{159, ErrorCodeUnavailable},
		{1, ErrorCodeWarehouse},
	}
	for _, c := range cases {
		got, ok := WarehouseErrorCode(&clickhouse.Exception{Code: c.code, Message: "x"})
		if !ok || got != c.want {
			t.Fatalf("code %d -> %v (ok=%v), want %v", c.code, got, ok, c.want)
		}
	}
	if _, ok := WarehouseErrorCode(stderrs.New("plain")); ok {
		t.Fatalf("plain error should not map")
	}
}

func TestFromWarehouse(t *testing.T) {
	if FromWarehouse(nil, "x") != nil {
		t.Fatalf("nil should pass through")
	}
	err := FromWarehouse(&googleapi.Error{Code: 404}, "heartbeats")
	if CodeOf(err) != ErrorCodeNotFound || HTTPStatus(err) != 404 {
		t.Fatalf("FromWarehouse 404 mismatch: %v", CodeOf(err))
	}
	if CodeOf(FromWarehouse(stderrs.New("boom"), "x")) != ErrorCodeWarehouse {
		t.Fatalf("unknown driver error should be ErrorCodeWarehouse")
	}
	cancelled := FromWarehouse(context.Canceled, "x")
	if CodeOf(cancelled) != ErrorCodeUnavailable || !stderrs.Is(cancelled, context.Canceled) {
		t.Fatalf("cancellation should stay visible through the wrap")
	}
}

func TestIsWarehouseRetryable(t *testing.T) {
	if !IsWarehouseRetryable(&googleapi.Error{Code: 429}) {
		t.Fatalf("429 should retry")
	}
	if !IsWarehouseRetryable(&googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}}) {
		t.Fatalf("rateLimitExceeded should retry")
	}
	if IsWarehouseRetryable(&googleapi.Error{Code: 404}) {
		t.Fatalf("404 should not retry")
	}
	if !IsWarehouseRetryable(&clickhouse.Exception{Code: 202}) {
		t.Fatalf("too many queries should retry")
	}
	if IsWarehouseRetryable(context.DeadlineExceeded) {
		t.Fatalf("deadline should not retry")
	}
	if !Retryable(&googleapi.Error{Code: 503}) {
		t.Fatalf("Retryable should cover the warehouse")
	}
}
