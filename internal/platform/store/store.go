// Package store opens the fleetdash backends behind small seams: postgres
// for the device registry, and bigquery or clickhouse for telemetry
package store

import (
	"context"
	"errors"
	"fmt"

	"fleetdash/internal/platform/logger"

	"github.com/rs/zerolog"
)

// Store holds whichever backends Open enabled; a zero Store has none
type Store struct {
	// Log is what backends log through; Open defaults it to a no op logger
	Log logger.Logger
	// PG backs the device registry, nil when disabled
	PG RowQuerier
	// WH serves telemetry, nil when the mock source is used
	WH Warehouse
}

// Rows is a forward only result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

type Row interface{ Scan(dest ...any) error }

type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface registry repos bind to
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Dialect is the SQL flavour of a Warehouse
type Dialect string

const (
	DialectBigQuery   Dialect = "bigquery"
	DialectClickHouse Dialect = "clickhouse"
)

// Param binds @Name in either dialect
type Param struct {
	Name  string
	Value any
}

func P(name string, v any) Param { return Param{Name: name, Value: v} }

// Warehouse is the read only seam telemetry queries run against
type Warehouse interface {
	Dialect() Dialect
	Query(ctx context.Context, sql string, params ...Param) (Rows, error)
	Pinger
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Option adjusts the Store before backends open
type Option func(*Store)

// WithLogger sets the logger backends report through
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Open connects the backends cfg enables and pings each one
// disabled backends stay nil
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}

	if cfg.PG.Enabled {
		pg, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = pg
	}

	// bigquery wins when both warehouses are configured
	var openWH func(context.Context, Config, *Store) (Warehouse, error)
	switch {
	case cfg.BQ.Enabled:
		openWH = openBQ
	case cfg.CH.Enabled:
		openWH = openCH
	}
	if openWH != nil {
		wh, err := openWH(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.WH = wh
	}
	return s, nil
}

// Guard pings every enabled backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	if s.WH != nil {
		if err := s.WH.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.WH.Dialect(), err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every enabled backend, warehouse first
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	if s.WH != nil {
		errs = append(errs, s.WH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
