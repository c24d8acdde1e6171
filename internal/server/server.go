// Package server exposes the pipeline operations over HTTP.
//
// The API is JSON in, JSON out. Every request gets an ID, taken from the
// X-Request-Id header when present, that is echoed in the response header
// and in error bodies. Failures carry the engine's error code:
//
//	{"error": {"code": "REDUCIBLE_SEED", "message": "..."}, "request_id": "..."}
//
// # Routes
//
//	GET  /healthz
//	POST /v1/induce      pipeline.InduceOptions
//	POST /v1/diagram     pipeline.ExploreOptions plus format, detailed, monochrome
//	POST /v1/cover       pipeline.CoverOptions
//	POST /v1/cylinders   pipeline.DecomposeOptions
//	POST /v1/speed       pipeline.SpeedOptions
//	GET  /v1/classes     ?size=n or ?key=k
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rauzy/pkg/pipeline"
)

// Defaults for Config fields left zero.
const (
	DefaultAddr           = "127.0.0.1:8080"
	DefaultRequestTimeout = 2 * time.Minute
	DefaultMaxBodyBytes   = 1 << 20
	shutdownTimeout       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr           string
	Runner         *pipeline.Runner
	Logger         *log.Logger
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil Runner gets an uncached one.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{cfg: cfg, runner: cfg.Runner, logger: cfg.Logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5, "application/json", "image/svg+xml", "text/vnd.graphviz"))
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(timeout(s.cfg.RequestTimeout))
		r.Post("/induce", s.handleInduce)
		r.Post("/diagram", s.handleDiagram)
		r.Post("/cover", s.handleCover)
		r.Post("/cylinders", s.handleCylinders)
		r.Post("/speed", s.handleSpeed)
		r.Get("/classes", s.handleClasses)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
