package influxdb

import "errors"

// Domain errors for the influxdb package.
var (
	// ErrDisabled is returned by Connect when telemetry is disabled in config.
	ErrDisabled = errors.New("influxdb: disabled")

	// ErrConnectionFailed is returned when the server cannot be reached.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrNotReady is returned when the server responds but is not ready.
	ErrNotReady = errors.New("influxdb: server not ready")
)
