// Package logger owns the process wide zerolog root and the request scoped children built from it
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is zerolog's logger; callers never import zerolog for the type
type Logger = zerolog.Logger

// Options shape the root logger
type Options struct {
	Level       string
	Format      string // console or json
	Service     string
	Component   string
	Writer      io.Writer
	Caller      bool
	SampleEvery int
	Fields      map[string]string
}

// FromEnv reads LOG_*; it cannot use the config package since config logs through us
func FromEnv() Options {
	sample, _ := strconv.Atoi(env("LOG_SAMPLE_EVERY", "0"))
	caller, _ := strconv.ParseBool(env("LOG_CALLER", "false"))
	return Options{
		Level:       env("LOG_LEVEL", "info"),
		Format:      strings.ToLower(env("LOG_FORMAT", "console")),
		Service:     env("LOG_SERVICE", "fleetdash"),
		Component:   env("LOG_COMPONENT", ""),
		Caller:      caller,
		SampleEvery: sample,
	}
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Init builds the root logger; only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = os.Stdout
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}

		wc := zerolog.New(w).Level(Level(opt.Level)).With().Timestamp()
		if bi, ok := debug.ReadBuildInfo(); ok {
			wc = wc.Str("go_version", bi.GoVersion)
		}
		if opt.Service != "" {
			wc = wc.Str("service", opt.Service)
		}
		if opt.Component != "" {
			wc = wc.Str("component", opt.Component)
		}
		for k, v := range opt.Fields {
			wc = wc.Str(k, v)
		}
		if opt.Caller {
			wc = wc.Caller()
		}

		l := wc.Logger()
		if opt.SampleEvery > 1 {
			l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}
		root.Store(&l)
	})
}

// Level parses s with zerolog's names plus "warning"; anything unknown is info
func Level(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

type ctxKey int

const (
	requestKey ctxKey = iota
	deviceKey
)

// WithRequest tags ctx with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestKey, reqID)
}

// WithDevice tags ctx with the device a fleet query is scoped to
func WithDevice(ctx context.Context, deviceID string) context.Context {
	if deviceID == "" {
		return ctx
	}
	return context.WithValue(ctx, deviceKey, deviceID)
}

// C is the root logger plus whatever request_id and device_id ctx carries
func C(ctx context.Context) *Logger {
	wc := Get().With()
	if s, _ := ctx.Value(requestKey).(string); s != "" {
		wc = wc.Str("request_id", s)
	}
	if s, _ := ctx.Value(deviceKey).(string); s != "" {
		wc = wc.Str("device_id", s)
	}
	l := wc.Logger()
	return &l
}

// Named is a child of the root with component set
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
