package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// recordingRequest is the optional request body for POST /recording/start.
type recordingRequest struct {
	Path string `json:"path"`
}

// handleStartRecording opens a fresh recording file and arms the sink.
//
// An existing file at the target path is truncated. Starting while a
// session is already active closes the old session and begins a new one.
func (s *Server) handleStartRecording(w http.ResponseWriter, r *http.Request) {
	path := s.recordingPath

	var req recordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Path != "" {
		path = req.Path
	}

	session, err := s.registry.StartRecording(path)
	if err != nil {
		s.logger.Error("failed to start recording", "path", path, "error", err)
		writeInternalError(w, "failed to start recording")
		return
	}

	s.logger.Info("recording started", "path", path, "session", session)

	writeJSON(w, http.StatusOK, map[string]any{
		"recording": true,
		"session":   session,
		"path":      path,
	})
}

// handleStopRecording detaches and closes the recording sink.
// Stopping when no session is active is a no-op.
func (s *Server) handleStopRecording(w http.ResponseWriter, _ *http.Request) {
	s.registry.StopRecording()
	s.logger.Info("recording stopped")

	writeJSON(w, http.StatusOK, map[string]any{
		"recording": false,
	})
}

// handleRecordingStatus reports whether a recording session is active.
func (s *Server) handleRecordingStatus(w http.ResponseWriter, _ *http.Request) {
	session, recording := s.registry.Recording()

	writeJSON(w, http.StatusOK, map[string]any{
		"recording": recording,
		"session":   session,
	})
}
