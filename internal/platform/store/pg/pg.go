// Package pg builds the pgx pool behind the device registry
package pg

import (
	"context"
	"fmt"
	"time"

	"fleetdash/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	// Log, when set, gets one line per statement; statements over Slow log at warn
	Log  *logger.Logger
	Slow time.Duration
}

var newPool = pgxpool.NewWithConfig

// Open builds the pool; connections are dialed lazily so callers ping before use
func Open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.Log != nil {
		pc.ConnConfig.Tracer = NewTracer(*cfg.Log, cfg.Slow)
	}
	return newPool(ctx, pc)
}
