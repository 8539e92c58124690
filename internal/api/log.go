package api

import (
	"encoding/json"
	"net/http"

	"github.com/beacontrack/beacontrack-core/internal/tracking"
)

// maxLogMessageLen bounds relayed log messages.
const maxLogMessageLen = 1024

// logRequest is the request body for POST /log.
type logRequest struct {
	Message string `json:"message"`
}

// handleEmitLog relays a client-supplied message to the log channel.
//
// Presentation clients use this to surface their own diagnostics in the
// shared event stream alongside core-generated messages.
func (s *Server) handleEmitLog(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Message == "" {
		writeBadRequest(w, "message is required")
		return
	}
	if len(req.Message) > maxLogMessageLen {
		writeBadRequest(w, "message exceeds maximum length")
		return
	}

	s.logger.Info("client log", "message", req.Message)
	s.hub.Broadcast(tracking.ChannelLog, tracking.LogEvent{Message: req.Message})

	writeJSON(w, http.StatusOK, map[string]any{
		"accepted": true,
	})
}
