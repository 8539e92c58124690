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

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", s.handleHealth)

		// Tracking lifecycle
		r.Route("/tracking", func(r chi.Router) {
			r.Post("/start", s.handleStartTracking)
			r.Get("/status", s.handleTrackingStatus)
		})

		// Device endpoints
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Get("/{address}/history", s.handleDeviceHistory)
		})

		// Floorplan loading
		r.Post("/floorplan", s.handleLoadFloorplan)

		// Recording control
		r.Route("/recording", func(r chi.Router) {
			r.Post("/start", s.handleStartRecording)
			r.Post("/stop", s.handleStopRecording)
			r.Get("/status", s.handleRecordingStatus)
		})

		// Client log relay
		r.Post("/log", s.handleEmitLog)

		// WebSocket
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
