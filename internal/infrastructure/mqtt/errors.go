package mqtt

import "errors"

// Domain errors for the mqtt package.
var (
	// ErrConnectionFailed is returned when the initial broker connection fails.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrNotConnected is returned when an operation requires an active connection.
	ErrNotConnected = errors.New("mqtt: not connected")
)
