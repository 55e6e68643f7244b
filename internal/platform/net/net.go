// Package net is the transport neutral part of the response contract:
// the envelope and the request id it carries
package net

import (
	"context"
	"net/http"

	perr "fleetdash/internal/platform/errors"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Envelope wraps every response body
// errors fill code/error/field, successes fill data
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Success wraps data; status 0 means 200
func Success(status int, data any, reqID string) Envelope {
	if status == 0 {
		status = http.StatusOK
	}
	return Envelope{StatusCode: status, Status: http.StatusText(status), RequestID: reqID, Data: data}
}

// Failure is the envelope for err at its mapped status
func Failure(err error, reqID string) Envelope {
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}

// WithRequest stores reqID where chi's RequestID middleware would
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID is the id RequestID middleware assigned, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
