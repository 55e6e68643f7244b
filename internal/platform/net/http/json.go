package http

import (
	"net/http"

	"fleetdash/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return bound(func(r *http.Request) (T, error) { return bind.ParseJSON[T](r) }, fn)
}

// QueryHandler adapts a handler whose input comes from the query string
func QueryHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return bound(bind.ParseQuery[T], fn)
}

func bound[T any](parse func(*http.Request) (T, error), fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := parse(r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
