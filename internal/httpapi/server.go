// Package httpapi serves the query executor as a small JSON API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/roach88/kgraph/internal/query"
)

// ShutdownTimeout bounds graceful shutdown once the serve context ends.
const ShutdownTimeout = 10 * time.Second

// Server routes HTTP requests to an executor.
type Server struct {
	exec    *query.Executor
	logger  *slog.Logger
	metrics http.Handler
	mux     *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer creates a server over exec with its routes registered.
func NewServer(exec *query.Executor, opts ...Option) *Server {
	s := &Server{
		exec:   exec,
		logger: slog.Default(),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}

	s.mux.HandleFunc("POST /v1/entities", s.handleEntities)
	s.mux.HandleFunc("GET /v1/entities/{id}", s.handleEntity)
	s.mux.HandleFunc("GET /v1/entities/{id}/values", s.handleEntityValues)
	s.mux.HandleFunc("GET /v1/entities/{id}/relations", s.handleEntityRelations)
	s.mux.HandleFunc("GET /v1/entities/{id}/backlinks", s.handleBacklinks)
	s.mux.HandleFunc("GET /v1/entities/{id}/types", s.handleEntityTypes)

	s.mux.HandleFunc("POST /v1/relations", s.handleRelations)
	s.mux.HandleFunc("GET /v1/relations/{id}", s.handleRelation)

	s.mux.HandleFunc("GET /v1/types", s.handleTypes)
	s.mux.HandleFunc("GET /v1/properties", s.handleProperties)
	s.mux.HandleFunc("GET /v1/properties/{id}", s.handleProperty)

	s.mux.HandleFunc("GET /v1/spaces", s.handleSpaces)
	s.mux.HandleFunc("GET /v1/spaces/{id}", s.handleSpace)
	s.mux.HandleFunc("GET /v1/spaces/{id}/members", s.handleMembers)

	s.mux.HandleFunc("POST /v1/search", s.handleSearch)
	s.mux.HandleFunc("POST /v1/explain", s.handleExplain)
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		s.logger.Info("server starting", "address", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, l)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
