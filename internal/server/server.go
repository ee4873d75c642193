// Package server exposes summarization over HTTP.
//
// Endpoints:
//
//	POST /summarize  JSON request, JSON result
//	GET  /health     liveness probe
//
// Summarization is CPU bound, so the server admits a bounded number of
// concurrent requests and rate limits the rest.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/matsen/excerpt/internal/config"
	"github.com/matsen/excerpt/internal/runner"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// shutdownGrace bounds how long in-flight requests may finish on shutdown.
const shutdownGrace = 10 * time.Second

// Server handles summarize requests.
type Server struct {
	cfg     *config.Config
	runner  *runner.Runner
	logger  *slog.Logger
	limiter *rate.Limiter
	sem     *semaphore.Weighted
	started time.Time
	handler http.Handler
}

// New creates a Server. The runner owns tokenizer, solver and history.
func New(cfg *config.Config, r *runner.Runner, logger *slog.Logger) *Server {
	sc := cfg.Server
	limit := rate.Inf
	if sc.RateLimit > 0 {
		limit = rate.Limit(sc.RateLimit)
	}
	burst := sc.Burst
	if burst <= 0 {
		burst = 1
	}
	concurrent := int64(sc.MaxConcurrent)
	if concurrent <= 0 {
		concurrent = 1
	}

	s := &Server{
		cfg:     cfg,
		runner:  r,
		logger:  logger,
		limiter: rate.NewLimiter(limit, burst),
		sem:     semaphore.NewWeighted(concurrent),
		started: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	mux.HandleFunc("GET /health", s.handleHealth)
	s.handler = s.logRequests(mux)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
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
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}
