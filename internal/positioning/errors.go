package positioning

import "errors"

// Domain errors for the positioning package.
//
// These errors can be checked using errors.Is() for error handling.
var (
	// ErrUnknownDriver is returned when the configured driver name is not recognised.
	ErrUnknownDriver = errors.New("positioning: unknown driver")

	// ErrSourceUnavailable is returned when the channel to the positioning
	// hardware cannot be opened or has failed.
	ErrSourceUnavailable = errors.New("positioning: source unavailable")

	// ErrNotOpen is returned when a source is queried before Open succeeded.
	ErrNotOpen = errors.New("positioning: source not open")

	// ErrClosed is returned when a source is used after Close.
	ErrClosed = errors.New("positioning: source closed")
)
