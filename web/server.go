// Package web serves graphs and incremental searches over a JSON HTTP API.
//
// Clients create a graph (a generated grid or an uploaded HCL/DOT file),
// start a run on it and resume the run step by step, receiving the search
// events produced by every step.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdrpinto/pathfinding/grid"
	"github.com/pdrpinto/pathfinding/store"
)

const maxBodyBytes = 1 << 20

// Config holds the configuration of the HTTP server.
type Config struct {
	Addr string
	// Grid supplies the defaults for POST /grids.
	Grid grid.Config
	// Workers bounds the parallel runs of GET /report. Zero means one per CPU.
	Workers int
	// History records finished runs when set.
	History *store.History
	Logger  *slog.Logger
}

// Server is the visualizer HTTP server.
type Server struct {
	router   chi.Router
	addr     string
	defaults grid.Config
	workers  int
	history  *store.History
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics

	mu     sync.RWMutex
	graphs map[uuid.UUID]*graphEntry
	runs   map[ulid.ULID]*runEntry
}

// NewServer creates a Server with empty graph and run tables.
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	registry := prometheus.NewRegistry()

	s := &Server{
		addr:     cfg.Addr,
		defaults: cfg.Grid,
		workers:  cfg.Workers,
		history:  cfg.History,
		logger:   cfg.Logger,
		registry: registry,
		metrics:  newMetrics(registry),
		graphs:   make(map[uuid.UUID]*graphEntry),
		runs:     make(map[ulid.ULID]*runEntry),
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()
	s.logger.Info("http server listening", "addr", s.addr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		s.logger.Info("http server stopped")
		return nil
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/grids", s.handleGridCreate)
	r.Route("/graphs", func(r chi.Router) {
		r.Post("/", s.handleGraphUpload)
		r.Get("/{graphID}", s.handleGraphGet)
	})
	r.Route("/runs", func(r chi.Router) {
		r.Post("/", s.handleRunCreate)
		r.Route("/{runID}", func(r chi.Router) {
			r.Get("/", s.handleRunGet)
			r.Delete("/", s.handleRunDelete)
			r.Post("/resume", s.handleRunResume)
			r.Get("/result", s.handleRunResult)
		})
	})
	r.Get("/history", s.handleHistory)
	r.Get("/report", s.handleReport)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
