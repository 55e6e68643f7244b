package store

import (
	"context"
	"fmt"
	"time"

	"fleetdash/internal/platform/logger"
	"fleetdash/internal/platform/store/bq"
	chx "fleetdash/internal/platform/store/ch"
	"fleetdash/internal/platform/store/pg"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultConnectRetries = 8
	defaultPingTimeout    = 3 * time.Second
)

// seams for tests
var (
	openPGClient = pg.Open
	openCHClient = chx.Open
	openBQClient = bq.Open
)

// pingWithRetry pings until success, ctx cancellation or the retry budget runs out
func pingWithRetry(ctx context.Context, cfg Config, log logger.Logger, name string, ping func(context.Context) error) error {
	retries := cfg.ConnectRetries
	if retries == 0 {
		retries = defaultConnectRetries
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 150 * time.Millisecond
	eb.MaxInterval = 2 * time.Second
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, retries), ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return ping(pctx)
	}, policy, func(err error, next time.Duration) {
		log.Warn().Err(err).Str("backend", name).Int("attempt", attempt).Dur("retry_in", next).Msg("store ping failed")
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s ping failed after %d attempts: %w", name, attempt, err)
	}
	return nil
}

func openPG(ctx context.Context, cfg Config, s *Store) (RowQuerier, error) {
	pc := pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		Slow:     time.Duration(cfg.PG.SlowQueryMs) * time.Millisecond,
	}
	if cfg.PG.LogSQL {
		pc.Log = &s.Log
	}
	pool, err := openPGClient(ctx, pc)
	if err != nil {
		return nil, err
	}
	// pool pings bypass the query tracer
	if err := pingWithRetry(ctx, cfg, s.Log, "postgres", pool.Ping); err != nil {
		pool.Close()
		return nil, err
	}
	return newPGAdapter(pool), nil
}

func openCH(ctx context.Context, cfg Config, s *Store) (Warehouse, error) {
	c, err := openCHClient(ctx, chx.Config{
		URL:      cfg.CH.URL,
		Database: cfg.CH.Database,
		Role:     "api",
	})
	if err != nil {
		return nil, err
	}
	if err := pingWithRetry(ctx, cfg, s.Log, "clickhouse", c.Ping); err != nil {
		_ = c.Close()
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openBQ(ctx context.Context, cfg Config, s *Store) (Warehouse, error) {
	c, err := openBQClient(ctx, bq.Config{
		Project:         cfg.BQ.Project,
		Dataset:         cfg.BQ.Dataset,
		Location:        cfg.BQ.Location,
		CredentialsFile: cfg.BQ.CredentialsFile,
		Endpoint:        cfg.BQ.Endpoint,
		UserAgent:       cfg.AppName,
	})
	if err != nil {
		return nil, err
	}
	if err := pingWithRetry(ctx, cfg, s.Log, "bigquery", c.Ping); err != nil {
		_ = c.Close()
		return nil, err
	}
	return newBQAdapter(c), nil
}
