// Package server exposes the analyzer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/minilang/internal/history"
	"github.com/leapstack-labs/minilang/pkg/analyzer"
)

const shutdownTimeout = 5 * time.Second

// Config holds configuration for the HTTP server.
type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	MaxBodyBytes      int64
	Analyzer          *analyzer.Analyzer
	// History records every /run analysis when set.
	History *history.Store
	Logger  *slog.Logger
}

// Server serves /run, /add_typo, /typos and /healthz.
type Server struct {
	addr              string
	readHeaderTimeout time.Duration
	maxBodyBytes      int64
	analyzer          *analyzer.Analyzer
	history           *history.Store
	logger            *slog.Logger
}

// New creates a server from cfg. A nil Analyzer gets one over the default
// dictionary.
func New(cfg Config) *Server {
	s := &Server{
		addr:              cfg.Addr,
		readHeaderTimeout: cfg.ReadHeaderTimeout,
		maxBodyBytes:      cfg.MaxBodyBytes,
		analyzer:          cfg.Analyzer,
		history:           cfg.History,
		logger:            cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.analyzer == nil {
		s.analyzer = analyzer.New(nil, analyzer.WithLogger(s.logger))
	}
	if s.readHeaderTimeout <= 0 {
		s.readHeaderTimeout = 10 * time.Second
	}
	return s
}

// Handler returns the routed handler with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestID,
		middleware.RealIP,
		requestLogger(s.logger),
		middleware.Recoverer,
	)
	if s.maxBodyBytes > 0 {
		r.Use(middleware.RequestSize(s.maxBodyBytes))
	}

	r.Post("/run", s.handleRun)
	r.Post("/add_typo", s.handleAddTypo)
	r.Get("/typos", s.handleTypos)
	r.Get("/healthz", s.handleHealth)
	return r
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	s.logger.Info("starting server", "addr", "http://"+ln.Addr().String())

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
