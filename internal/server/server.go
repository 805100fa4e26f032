// Package server exposes the lookup services over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/observability"
	"github.com/geolens/geolens/internal/server/handlers"
	servermw "github.com/geolens/geolens/internal/server/middleware"
)

// Server is the HTTP front end.
type Server struct {
	router *chi.Mux
	server *http.Server
	cfg    config.ServerConfig
	health *handlers.HealthManager
}

// New builds the router with middleware, the API routes, and the
// operational endpoints. Middleware order: RequestID for correlation,
// metrics to measure everything, recovery outermost.
func New(cfg config.ServerConfig, services *handlers.Services, version string) *Server {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(servermw.RequestID)
	r.Use(servermw.RequestMetrics)
	r.Use(servermw.Recovery)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		servermw.WriteErrorEnvelope(w, req, http.StatusNotFound,
			"not_found", "the requested resource was not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		servermw.WriteErrorEnvelope(w, req, http.StatusMethodNotAllowed,
			"method_not_allowed", "the requested method is not allowed for this resource")
	})

	s := &Server{
		router: r,
		cfg:    cfg,
		health: handlers.NewHealthManager(version),
	}
	s.registerRoutes(services)
	return s
}

// RegisterHealthChecker adds a dependency to the /health aggregate.
func (s *Server) RegisterHealthChecker(name string, checker handlers.HealthChecker) {
	s.health.RegisterChecker(name, checker)
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  orDefault(s.cfg.ReadTimeout, 30*time.Second),
		WriteTimeout: orDefault(s.cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:  orDefault(s.cfg.IdleTimeout, 120*time.Second),
	}

	observability.Logger().Info("starting http server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.Logger().Info("shutting down http server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
