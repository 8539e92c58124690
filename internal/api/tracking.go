package api

import (
	"context"
	"net/http"
)

// handleStartTracking starts the tracking loop.
//
// The operation is idempotent: if tracking is already running (or has
// halted after a failure), the call reports the current state without
// starting a second loop.
func (s *Server) handleStartTracking(w http.ResponseWriter, _ *http.Request) {
	ctx := s.runCtx
	if ctx == nil {
		ctx = context.Background()
	}

	started := s.synchronizer.Start(ctx)

	writeJSON(w, http.StatusOK, map[string]any{
		"started": started,
		"running": s.registry.Running(),
		"halted":  s.registry.Halted(),
	})
}

// handleTrackingStatus returns the current tracking run state.
func (s *Server) handleTrackingStatus(w http.ResponseWriter, _ *http.Request) {
	session, recording := s.registry.Recording()

	writeJSON(w, http.StatusOK, map[string]any{
		"running":   s.registry.Running(),
		"halted":    s.registry.Halted(),
		"devices":   s.registry.DeviceCount(),
		"recording": recording,
		"session":   session,
	})
}
