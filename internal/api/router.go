package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the HTTP route tree with middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)

	wsPath := s.wsCfg.Path
	if wsPath == "" {
		wsPath = "/ws"
	}
	r.Get(wsPath, s.hub.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleRegisterDevice)
			r.Get("/{id}", s.handleGetDevice)
			r.Post("/{id}/collect", s.handleCollectDevice)
		})

		r.Get("/dashboard/metrics", s.handleDashboardMetrics)
		r.Get("/notifications", s.handleListNotifications)
		r.Get("/collection-points", s.handleListCollectionPoints)
	})

	return r
}

// handleHealth reports server liveness and basic runtime information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   s.version,
		"devices":   s.store.Count(),
		"ws_clients": s.hub.ClientCount(),
	})
}
