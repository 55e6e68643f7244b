// Package http is the transport layer: the envelope every endpoint answers
// with, the router seam and the server
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "fleetdash/internal/platform/errors"
	pnet "fleetdash/internal/platform/net"
)

// Envelope wraps every response body
type Envelope = pnet.Envelope

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes the envelope for err with its mapped status
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	env := pnet.Failure(err, pnet.RequestID(r.Context()))
	JSON(w, env.StatusCode, env)
}

// Response is what return style handlers produce
// an error Body decides its own status
type Response struct {
	Status int
	Body   any
}

func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a return style handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		resp := h(r)
		if err, ok := resp.Body.(error); ok && err != nil {
			RespondError(w, r, err)
			return
		}
		env := pnet.Success(resp.Status, resp.Body, pnet.RequestID(r.Context()))
		JSON(w, env.StatusCode, env)
	}
}

// NotFound writes the 404 envelope for unmatched routes
func NotFound(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	RespondError(w, r, perr.NotFoundf("no route for %s %s", r.Method, r.URL.Path))
}

// MethodNotAllowed writes the 405 envelope for known paths hit with the wrong verb
func MethodNotAllowed(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	RespondError(w, r, perr.Newf(perr.ErrorCodeMethodNotAllowed, "method %s not allowed on %s", r.Method, r.URL.Path))
}
