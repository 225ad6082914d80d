// Package server exposes the glossary and lint reports over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/typeterms/typeterms/glossary"
	"github.com/typeterms/typeterms/lint"
	"github.com/typeterms/typeterms/storage"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// ReportStore persists lint reports. *storage.Store satisfies it.
type ReportStore interface {
	SaveReport(ctx context.Context, r *lint.Report) (storage.EntityID, error)
	LatestReport(ctx context.Context) (*lint.Report, error)
}

// Options configures a Server.
type Options struct {
	// Addr is the listen address (host:port).
	Addr string

	// Registry holds the loaded glossary entries.
	Registry *glossary.Registry

	// Checker runs lint requests.
	Checker *lint.Checker

	// Documents are the default lint glob patterns when a lint request
	// names none.
	Documents []string

	// Store persists lint reports. Nil keeps reports in memory only.
	Store ReportStore

	// Logger receives request and lint logs.
	Logger *slog.Logger
}

// Server serves the glossary API and Prometheus metrics.
type Server struct {
	addr      string
	registry  *glossary.Registry
	checker   *lint.Checker
	documents []string
	store     ReportStore
	logger    *slog.Logger

	httpServer *http.Server

	mu         sync.RWMutex
	lastReport *lint.Report
}

// New creates a server from the given options.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		addr:      opts.Addr,
		registry:  opts.Registry,
		checker:   opts.Checker,
		documents: opts.Documents,
		store:     opts.Store,
		logger:    logger,
	}

	glossaryEntries.Set(float64(s.registry.Len()))

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the server's routing handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/terms", s.instrument("/api/terms", s.handleTerms))
	mux.HandleFunc("/api/terms/", s.instrument("/api/terms/{anchor}", s.handleTerm))
	mux.HandleFunc("/api/report", s.instrument("/api/report", s.handleReport))
	mux.HandleFunc("/api/lint", s.instrument("/api/lint", s.handleLint))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// instrument records request latency under a stable route label.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	}
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", s.addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
