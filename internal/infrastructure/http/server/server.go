// Package server provides the HTTP server for the planner API
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mealmatch/planner/internal/infrastructure/config"
	"github.com/mealmatch/planner/internal/infrastructure/http/handlers"
	"github.com/mealmatch/planner/internal/infrastructure/http/middleware"
	"github.com/mealmatch/planner/internal/infrastructure/monitoring"
	"github.com/mealmatch/planner/pkg/healthcheck"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// requestTimeout bounds the time a handler may spend on one request
const requestTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	router  *chi.Mux
	handler http.Handler
	server  *http.Server

	planner *handlers.PlannerHandlers
	library *handlers.LibraryHandlers
	metrics *monitoring.Metrics
	health  *healthcheck.HealthCheck
	tracing *monitoring.TracingProvider
}

// NewServer creates a new HTTP server instance. metrics and tracing may be nil.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	planner *handlers.PlannerHandlers,
	library *handlers.LibraryHandlers,
	metrics *monitoring.Metrics,
	health *healthcheck.HealthCheck,
	tracing *monitoring.TracingProvider,
) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger.Named("http-server"),
		planner: planner,
		library: library,
		metrics: metrics,
		health:  health,
		tracing: tracing,
	}

	s.router = s.setupRouter()
	s.handler = s.router
	if tracing != nil && tracing.Enabled() {
		s.handler = otelhttp.NewHandler(s.router, cfg.App.Name,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	s.server = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}
	if s.config.Server.EnableCORS && len(s.config.Server.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   s.config.Server.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{"Location", middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}).Handler)
	}

	// Probes and metrics stay outside the rate limit
	if s.health != nil {
		r.Get("/health", s.health.Handler())
		r.Get("/health/live", s.health.LivenessHandler())
		r.Get("/health/ready", s.health.ReadinessHandler())
	}
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(s.config.RateLimit, s.logger))
		r.Use(middleware.ContentType())
		r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))
		r.Use(chimiddleware.Timeout(requestTimeout))

		s.planner.Routes(r)
		s.library.Routes(r)
	})

	return r
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
		zap.Bool("tracing", s.tracing != nil && s.tracing.Enabled()),
	)

	if err := http2.ConfigureServer(s.server, nil); err != nil {
		s.logger.Error("Failed to configure HTTP/2", zap.Error(err))
	}

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
