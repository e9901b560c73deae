// Package server exposes the analysis pipeline over HTTP: analyze, follow-up
// QA, per-session settings, and the operational endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/core/engine"
	"github.com/brandscope/brandscope/internal/metrics"
	servermw "github.com/brandscope/brandscope/internal/server/middleware"
	"github.com/brandscope/brandscope/internal/session"
)

// Config holds HTTP server settings.
type Config struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Analyzer *engine.Analyzer
	Sessions session.Store
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// Server is the HTTP front end.
type Server struct {
	router *chi.Mux
	server *http.Server
	host   string
	port   int

	analyzer *engine.Analyzer
	sessions session.Store
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// New builds the router with the full middleware chain and all routes.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		host:     cfg.Host,
		port:     cfg.Port,
		analyzer: deps.Analyzer,
		sessions: deps.Sessions,
		metrics:  deps.Metrics,
		log:      deps.Log,
	}

	s.router.Use(chimw.RealIP)
	s.router.Use(servermw.RequestID)
	s.router.Use(servermw.Session)
	s.router.Use(servermw.RequestMetrics(s.metrics))
	s.router.Use(servermw.RequestLogger(s.log))
	s.router.Use(servermw.Recovery(s.log, s.metrics))

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusNotFound, "Not Found", "The requested resource was not found.")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "The requested method is not allowed for this resource.")
	})

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Post("/analyze", s.handleAnalyze)
	s.router.Post("/qa", s.handleQA)

	s.router.Get("/api/settings", s.handleGetSettings)
	s.router.Post("/api/settings", s.handlePostSettings)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/health/live", s.handleLiveness)
	s.router.Get("/health/ready", s.handleReadiness)
	s.router.Get("/version", s.handleVersion)

	if s.metrics != nil {
		s.router.Get("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}).ServeHTTP)
	}
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// Analyze requests wait on several sequential external calls.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger().Info("starting http server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger().Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) logger() *zap.Logger {
	if s.log != nil {
		return s.log
	}
	return zap.NewNop()
}
