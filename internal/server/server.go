// Package server exposes the planning pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness probe
//	GET  /version     build information
//	POST /v1/plan     plan a network, respond with the pipeline result as JSON
//	POST /v1/render   plan and render a network, respond with the artifact
//
// Both POST routes take a JSON body with the network inline, either as
// "text" in the puzzle format or as a "graph" document, plus the planning
// options of [pipeline.Options]. Server-side file paths are never read.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	apperr "github.com/matzehuels/flowplan/pkg/errors"
	"github.com/matzehuels/flowplan/pkg/httputil"
	"github.com/matzehuels/flowplan/pkg/observability"
	"github.com/matzehuels/flowplan/pkg/pipeline"
)

// Defaults for [Config] fields left zero.
const (
	DefaultMaxWorkers     = 4
	DefaultRequestTimeout = 60 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Config controls request limits.
type Config struct {
	// MaxBody bounds request bodies in bytes (default 1 MiB).
	MaxBody int64

	// MaxWorkers caps the dual planner workers a request may ask for.
	MaxWorkers int

	// RequestTimeout bounds each planning request. A request may ask for
	// less but never more.
	RequestTimeout time.Duration

	// RateLimit is the sustained number of planning requests per second
	// across all clients; zero disables limiting. Burst defaults to 1.
	RateLimit float64
	Burst     int
}

// Server handles planning requests with a shared runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	cfg     Config
	limiter *rate.Limiter
	router  chi.Router
}

// New creates a server. The runner's cache is shared by all requests.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = httputil.DefaultMaxBody
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultMaxWorkers
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	s := &Server{runner: runner, logger: logger, cfg: cfg}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.throttle)
		r.Post("/plan", s.handlePlan)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, apperr.New(apperr.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// observe reports every request to the HTTP hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// throttle rejects planning requests beyond the configured rate.
func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			s.fail(w, r, apperr.New(apperr.ErrCodeRateLimited, "too many planning requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
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
