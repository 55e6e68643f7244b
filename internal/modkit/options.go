package modkit

import (
	"net/http"

	"fleetdash/internal/modkit/httpkit"
	phttp "fleetdash/internal/platform/net/http"
	str "fleetdash/internal/platform/strings"
)

// Option overrides how a module mounts
type Option func(*Built)

// Built is the resolved mount config of one module
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// WithName renames the module in logs and the port registry
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix moves the module to another path
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares appends per module middleware, outermost first
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// Build starts from the module defaults and applies opts in order
func Build(name, prefix string, opts ...Option) Built {
	b := Built{Name: name, Prefix: prefix}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Mount runs register on a subrouter at the module prefix
func (b Built) Mount(r phttp.Router, register func(phttp.Router)) {
	httpkit.MountUnder(r, str.MustPrefix(b.Prefix), b.Mw, register)
}
