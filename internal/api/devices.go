package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultHistoryLimit   = 50
	maxHistoryLimit       = 500
	serviceUnavailableKey = "service_unavailable"
)

// handleListDevices returns a snapshot of all known devices.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.registry.Snapshot()

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleDeviceHistory returns recorded position fixes for a device.
func (s *Server) handleDeviceHistory(w http.ResponseWriter, r *http.Request) {
	address, err := parseAddressParam(chi.URLParam(r, "address"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	limit, err := parseHistoryLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, serviceUnavailableKey, "position history unavailable")
		return
	}

	fixes, err := s.history.GetHistory(r.Context(), address, limit)
	if err != nil {
		s.logger.Error("position history query failed", "address", address, "error", err)
		writeInternalError(w, "failed to load position history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"address": address,
		"history": fixes,
		"count":   len(fixes),
	})
}

// parseAddressParam parses a device address URL parameter.
func parseAddressParam(raw string) (uint8, error) {
	value, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid device address")
	}
	return uint8(value), nil
}

// parseHistoryLimit parses the limit query parameter with bounds enforcement.
func parseHistoryLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit")
	}
	if limit > maxHistoryLimit {
		return 0, fmt.Errorf("limit exceeds maximum")
	}

	return limit, nil
}
