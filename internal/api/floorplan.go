package api

import (
	"encoding/json"
	"net/http"

	"github.com/beacontrack/beacontrack-core/internal/floorplan"
	"github.com/beacontrack/beacontrack-core/internal/tracking"
)

// floorplanRequest is the request body for POST /floorplan.
type floorplanRequest struct {
	Path string `json:"path"`
}

// handleLoadFloorplan parses a floorplan file and seeds its fixed beacons
// into the registry.
//
// Parse failures are reported in-band: the response carries an empty device
// list and the error message, and the same message is broadcast on the log
// channel so presentation clients surface it. Devices already in the
// registry are never partially updated by a failed parse.
func (s *Server) handleLoadFloorplan(w http.ResponseWriter, r *http.Request) {
	var req floorplanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Path == "" {
		writeBadRequest(w, "path is required")
		return
	}

	devices, descriptor, err := floorplan.Parse(req.Path)
	if err != nil {
		s.logger.Warn("floorplan parse failed", "path", req.Path, "error", err)
		s.hub.Broadcast(tracking.ChannelLog, tracking.LogEvent{Message: err.Error()})

		writeJSON(w, http.StatusOK, map[string]any{
			"devices": []tracking.Device{},
			"count":   0,
			"error":   err.Error(),
		})
		return
	}

	added := s.registry.Seed(devices)
	s.logger.Info("floorplan loaded",
		"path", req.Path,
		"beacons", len(devices),
		"added", added,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"devices":   s.registry.Snapshot(),
		"count":     s.registry.DeviceCount(),
		"added":     added,
		"floorplan": descriptor,
	})
}
