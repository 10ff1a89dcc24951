package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)

		r.Get("/home", s.handleGetHome)
		r.Get("/energy", s.handleGetEnergy)

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.handleListRooms)
			r.Get("/{name}", s.handleGetRoom)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Get("/stats", s.handleDeviceStats)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Post("/command", s.handleDeviceCommand)
			})
		})

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", s.handleListRules)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", s.handleGetRule)
				r.Post("/enable", s.handleEnableRule)
				r.Post("/disable", s.handleDisableRule)
				r.Get("/executions", s.handleRuleExecutions)
			})
		})

		r.Get("/tasks", s.handleListTasks)

		r.Route("/scenes", func(r chi.Router) {
			r.Get("/", s.handleListScenes)
			r.Route("/{name}", func(r chi.Router) {
				r.Post("/activate", s.handleActivateScene)
				r.Get("/executions", s.handleSceneExecutions)
			})
		})

		r.Get("/executions", s.handleRecentExecutions)

		r.Route("/security", func(r chi.Router) {
			r.Post("/arm", s.handleArm)
			r.Post("/disarm", s.handleDisarm)
		})

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
