package tracking

import "errors"

// Domain errors for the tracking package.
//
// These errors can be checked using errors.Is() for error handling.
var (
	// ErrRecorderClosed is returned when a sample is appended to a
	// recorder that has already been closed.
	ErrRecorderClosed = errors.New("tracking: recorder closed")

	// ErrRecordingFailed wraps I/O failures on the recording sink.
	// The registry detaches the sink when this occurs; tracking continues.
	ErrRecordingFailed = errors.New("tracking: recording write failed")
)
