package errors

// warehouse (bigquery / clickhouse) error mapping

import (
	"context"
	stderrs "errors"
	"net/http"

	"github.com/ClickHouse/clickhouse-go/v2"
	"google.golang.org/api/googleapi"
)

// clickhouse server exception codes we treat specially
const (
	chErrUnknownTable       = 60
	chErrUnknownDatabase    = 81
	chErrSyntax             = 62
	chErrTimeoutExceeded    = 159
	chErrTooManySimQueries  = 202
	chErrMemoryLimitExceed  = 241
	chErrAuthenticationFail = 516
)

// WarehouseErrorCode maps a bigquery or clickhouse failure to an ErrorCode
// !ok means err came from neither driver
func WarehouseErrorCode(err error) (ErrorCode, bool) {
	var gerr *googleapi.Error
	if stderrs.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return ErrorCodeNotFound, true
		case http.StatusBadRequest:
			return ErrorCodeInvalidArgument, true
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrorCodeUnavailable, true
		case http.StatusTooManyRequests:
			return ErrorCodeTooManyRequests, true
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return ErrorCodeUnavailable, true
		}
		return ErrorCodeWarehouse, true
	}

	var ex *clickhouse.Exception
	if stderrs.As(err, &ex) {
		switch ex.Code {
		case chErrUnknownTable, chErrUnknownDatabase:
			return ErrorCodeNotFound, true
		case chErrSyntax:
			return ErrorCodeWarehouse, true
		case chErrTooManySimQueries:
			return ErrorCodeTooManyRequests, true
		case chErrTimeoutExceeded, chErrMemoryLimitExceed, chErrAuthenticationFail:
			return ErrorCodeUnavailable, true
		}
		return ErrorCodeWarehouse, true
	}
	return ErrorCodeUnknown, false
}

// FromWarehouse wraps a driver error with its mapped code; nil stays nil
// context cancellation keeps its own identity under ErrorCodeUnavailable
func FromWarehouse(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	if code, ok := WarehouseErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeWarehouse, msg)
}

// IsWarehouseRetryable reports rate limits and backend hiccups worth another attempt
func IsWarehouseRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	var gerr *googleapi.Error
	if stderrs.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable:
			return true
		}
		for _, it := range gerr.Errors {
			if it.Reason == "rateLimitExceeded" || it.Reason == "backendError" {
				return true
			}
		}
		return false
	}
	var ex *clickhouse.Exception
	if stderrs.As(err, &ex) {
		return ex.Code == chErrTooManySimQueries || ex.Code == chErrTimeoutExceeded
	}
	return false
}
