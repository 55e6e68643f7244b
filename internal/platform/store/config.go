package store

import (
	"time"

	"fleetdash/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
	BQ BQConfig

	// ConnectRetries bounds the ping retries on open (0 means 8)
	ConnectRetries uint64
	// PingTimeout bounds a single ping attempt (0 means 3s)
	PingTimeout time.Duration
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled  bool
	URL      string
	Database string
}

// BQConfig configures bigquery access
type BQConfig struct {
	Enabled         bool
	Project         string
	Dataset         string
	Location        string
	CredentialsFile string
	// Endpoint points at an emulator; auth is skipped when set
	Endpoint string
}

// ConfigFromEnv reads SERVICE_* keys; warehouse selects which analytics
// backend to enable ("bigquery", "clickhouse" or anything else for none)
func ConfigFromEnv(appName, warehouse string) Config {
	root := config.New().Prefix("SERVICE_")
	pgc := root.Prefix("PGSQL_")
	chc := root.Prefix("CLICKHOUSE_")
	bqc := root.Prefix("BIGQUERY_")

	cfg := Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:     pgc.MayBool("ENABLED", false),
			URL:         pgc.MayString("DBURL", ""),
			MaxConns:    int32(pgc.MayInt("MAX_CONNS", 4)),
			LogSQL:      pgc.MayBool("LOG_SQL", false),
			SlowQueryMs: pgc.MayInt("SLOW_MS", 250),
		},
		CH: CHConfig{
			URL:      chc.MayString("DBURL", ""),
			Database: chc.MayString("DATABASE", ""),
		},
		BQ: BQConfig{
			Project:         bqc.MayString("PROJECT", ""),
			Dataset:         bqc.MayString("DATASET", ""),
			Location:        bqc.MayString("LOCATION", "US"),
			CredentialsFile: bqc.MayString("CREDENTIALS_FILE", ""),
			Endpoint:        bqc.MayString("ENDPOINT", ""),
		},
	}
	if cfg.PG.Enabled {
		cfg.PG.URL = pgc.MustString("DBURL")
	}
	switch Dialect(warehouse) {
	case DialectBigQuery:
		cfg.BQ.Enabled = true
		cfg.BQ.Project = bqc.MustString("PROJECT")
		cfg.BQ.Dataset = bqc.MustString("DATASET")
	case DialectClickHouse:
		cfg.CH.Enabled = true
		cfg.CH.URL = chc.MustString("DBURL")
	}
	return cfg
}
