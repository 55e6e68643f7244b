package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fleetdash/internal/core/pacific"
	"fleetdash/internal/core/version"
	"fleetdash/internal/platform/config"
	"fleetdash/internal/platform/logger"
	"fleetdash/internal/platform/metrics"
	phttp "fleetdash/internal/platform/net/http"
	"fleetdash/internal/platform/store"

	"fleetdash/internal/services/api"
	fleetrepo "fleetdash/internal/services/api/fleet/repo"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// .env is optional and never overrides the real environment
	dotenvErr := config.LoadDotenv()

	logger.Init(logger.FromEnv())
	l := logger.Get()
	if dotenvErr != nil {
		l.Warn().Err(dotenvErr).Msg("ignoring unreadable .env")
	}

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	fleetCfg := root.Prefix("FLEET_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := pacific.LoadLocation(fleetCfg.MayString("TIMEZONE", pacific.ZoneName))
	if err != nil {
		l.Fatal().Err(err).Msg("invalid FLEET_TIMEZONE")
	}
	dates := pacific.New(pacific.WithLocation(loc))

	// mock keeps the warehouse nil and the fleet module generates telemetry
	warehouse := fleetCfg.MayEnum("WAREHOUSE", "mock", "mock", "bigquery", "clickhouse")
	st, err := store.Open(ctx, store.ConfigFromEnv(version.Info().Service, warehouse), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Str("warehouse", warehouse).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if st.PG != nil && fleetCfg.MayBool("MIGRATE", false) {
		if err := fleetrepo.Migrate(ctx, st.PG); err != nil {
			l.Fatal().Err(err).Msg("devices migration failed")
		}
	}

	// every wired store must answer before we serve
	if err := st.Guard(ctx); err != nil {
		l.Fatal().Err(err).Msg("store guard failed")
	}

	inst := metrics.New("fleetdash")
	var gatherer prometheus.Gatherer
	if apiCfg.MayBool("METRICS", true) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			inst,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		gatherer = reg
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Metrics:        inst,
			Gatherer:       gatherer,
			Dates:          dates,
			CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	l.Info().
		Str("warehouse", warehouse).
		Str("tz", loc.String()).
		Str("today", dates.Today().String()).
		Msg("fleetdash api starting")

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		return
	}
	l.Info().Msg("bye")
}
