package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/geolens/geolens/internal/metrics"
	"github.com/geolens/geolens/internal/server/handlers"
)

// registerRoutes wires the operational endpoints plus the v1 lookup API.
func (s *Server) registerRoutes(services *handlers.Services) {
	s.router.Get("/health", s.health.Handler)
	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", metrics.Handler().ServeHTTP)

	if services == nil {
		return
	}
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/geocode", services.Geocode)
		r.Get("/distance", services.DistanceSummary)
		r.Get("/timezone", services.TimezoneLookup)
		r.Get("/staticmap", services.StaticMapURL)
	})
}
