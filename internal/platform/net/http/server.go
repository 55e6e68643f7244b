package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"fleetdash/internal/platform/config"
	"fleetdash/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the root chi mux and the listener
type Server struct {
	addr  string
	grace time.Duration
	mux   *chi.Mux
	srv   *stdhttp.Server
}

// NewServer reads PORT (default :4000), SHUTDOWN_GRACE (10s) and
// WRITE_TIMEOUT (60s) under cfg
// unmatched routes and verbs answer with the error envelope
func NewServer(cfg config.Conf) *Server {
	addr := cfg.MayPort("PORT", ":4000")
	m := chi.NewRouter()
	m.NotFound(NotFound)
	m.MethodNotAllowed(MethodNotAllowed)
	return &Server{
		addr:  addr,
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
		mux:   m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.MayDuration("WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:       90 * time.Second,
		},
	}
}

// Router returns the platform seam over the root mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done, then drains in flight requests for the grace period
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	log.Info().Str("addr", s.addr).Msg("http listening")

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("grace", s.grace).Msg("http draining")
	sctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
