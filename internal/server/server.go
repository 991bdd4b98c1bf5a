// Package server exposes the generation pipeline as a small HTTP API for
// the collection tooling: health and preset discovery, sweep estimation,
// and fixed-batch generation with base64 element transfer.
//
// Generation runs one request at a time; concurrent generate requests
// are serialized behind a mutex rather than rejected, so the collector
// can fire requests without its own queueing.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cropforge/cropforge/pkg/pipeline"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8737"

// shutdownGrace bounds how long in-flight requests may run after the
// serve context is cancelled.
const shutdownGrace = 5 * time.Second

// Server is the HTTP API. Construct with [New].
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	version string

	// Serializes generation: the compositing pipeline runs one batch at
	// a time.
	genMu sync.Mutex
}

// New creates a server around a pipeline runner. The version string is
// reported by the health endpoint.
func New(runner *pipeline.Runner, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:  runner,
		logger:  logger,
		version: version,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Post("/estimate", s.handleEstimate)
		r.Post("/generate", s.handleGenerate)
	})
	return r
}

// ListenAndServe runs the API until the context is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("api listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
