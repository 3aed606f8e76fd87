// Package api exposes the analytics service over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/service"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status        string            `json:"status"`
	Service       string            `json:"service"`
	CurrentSeason string            `json:"current_season,omitempty"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// Config holds the configuration for the API server.
type Config struct {
	ServiceName    string
	Version        string
	Port           int
	AllowedOrigins []string
	// MetricsPath serves Prometheus metrics when non-empty
	MetricsPath string
	Logger      *logrus.Logger
	Service     *service.AnalyticsService
}

// Server serves the analytics API.
type Server struct {
	serviceName string
	version     string
	addr        string
	svc         *service.AnalyticsService
	router      chi.Router
	server      *http.Server
	logger      *logrus.Logger
	audit       *logger.AuditLogger
	validate    *validator.Validate
	mu          sync.RWMutex
	ready       bool
}

// NewServer creates the API server and its routes.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	name := cfg.ServiceName
	if name == "" {
		name = "courtside"
	}

	s := &Server{
		serviceName: name,
		version:     cfg.Version,
		addr:        fmt.Sprintf(":%d", cfg.Port),
		svc:         cfg.Service,
		logger:      log,
		audit:       logger.NewAuditLogger(log),
		validate:    validator.New(),
		ready:       true,
	}
	s.router = s.routes(cfg)
	return s
}

func (s *Server) routes(cfg Config) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/teams", s.handleTeams)
		r.Get("/seasons", s.handleSeasons)
		r.Get("/odds", s.handleOdds)
		r.Post("/ratings", s.handleRatings)
		r.Post("/ratings/compare", s.handleCompareK)
		r.Post("/win-probability", s.handleWinProbability)
		r.Post("/series-probability", s.handleSeriesProbability)
		r.Post("/market-analysis", s.handleMarketAnalysis)
	})

	if cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, metrics.Handler())
	}
	return r
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start starts the server in the background and shuts it down when ctx ends.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":    s.addr,
			"service": s.serviceName,
		}).Info("API server starting")

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("API server shutdown incomplete")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.SetReady(false)
	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// handleHealth handles the /health endpoint - basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
	})
}

// handleReady reports whether the server accepts traffic and which season
// requests default to.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"service": "ok"}
	status := http.StatusOK
	response := ReadyResponse{Status: "ok", Service: s.serviceName, Checks: checks}

	if !s.IsReady() {
		checks["service"] = "not_ready"
		response.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	if s.svc != nil {
		response.CurrentSeason = s.svc.Seasons().Current().ID
		if s.svc.Cache().Enabled() {
			checks["ratings_cache"] = fmt.Sprintf("%d entries", s.svc.Cache().ItemCount())
		}
	}

	respondJSON(w, status, response)
}
