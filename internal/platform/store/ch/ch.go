// Package ch provides the clickhouse telemetry client
package ch

import (
	"context"
	"errors"
	"os"
	"runtime"

	"fleetdash/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the clickhouse client
type Config struct {
	// URL is a clickhouse:// DSN
	URL string
	// Database overrides the database named in the DSN
	Database string
	// Role tags the connection in system.query_log next to the build
	Role string
}

// Rows is the result set surface clickhouse-go hands back
type Rows = driver.Rows

// CH wraps a native clickhouse connection
type CH struct {
	conn driver.Conn
}

var openConn = clickhouse.Open

// Open parses the DSN and opens a native connection; it does not ping
func Open(_ context.Context, cfg Config) (*CH, error) {
	if cfg.URL == "" {
		return nil, errors.New("ch: empty dsn")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Database != "" {
		opts.Auth.Database = cfg.Database
	}
	opts.ClientInfo = clientInfo(cfg.Role)

	conn, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	return &CH{conn: conn}, nil
}

// Ping checks server reachability
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Query runs sql with driver args (clickhouse.Named for @name binds)
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Close releases the connection pool
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// clientInfo names this process in clickhouse's query log
func clientInfo(role string) clickhouse.ClientInfo {
	bi := version.Info()
	host, _ := os.Hostname()
	info := clickhouse.ClientInfo{}
	for _, p := range [][2]string{
		{"fleetdash", bi.Version},
		{"role", role},
		{"commit", bi.Commit},
		{"go", runtime.Version()},
		{"host", host},
	} {
		if p[1] == "" {
			p[1] = "unknown"
		}
		info.Products = append(info.Products, struct{ Name, Version string }{p[0], p[1]})
	}
	return info
}
