package tracking

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// RecordHeader is the fixed header row written at the start of every
// recording file. Data rows carry the same columns: device address, raw
// millimetre coordinates, fix quality, and the sample time as Unix epoch
// milliseconds.
const RecordHeader = "address,x,y,z,q,t"

// filePermissions is the permission mode for recording files.
const filePermissions = 0600

// Recorder is a CSV recording sink for positioning samples.
//
// The file is truncated on creation and begins with RecordHeader. The
// Recorder itself is not thread-safe; the Registry serialises access to
// it under its own lock, and the synchroniser loop is the only writer.
type Recorder struct {
	f       *os.File
	session string
	closed  bool
}

// NewRecorder creates (or truncates) the recording file at path and
// writes the header row.
//
// Parameters:
//   - path: CSV file path
//
// Returns:
//   - *Recorder: Open sink ready for Append
//   - error: If the file cannot be created or the header write fails
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermissions)
	if err != nil {
		return nil, fmt.Errorf("creating recording file: %w", err)
	}

	if _, err := fmt.Fprintln(f, RecordHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing recording header: %w", err)
	}

	return &Recorder{
		f:       f,
		session: uuid.NewString(),
	}, nil
}

// Append writes one sample row.
//
// Parameters:
//   - s: Sample with raw millimetre coordinates and hardware timestamp
//
// Returns:
//   - error: ErrRecorderClosed, or the underlying write error
func (r *Recorder) Append(s Sample) error {
	if r.closed {
		return ErrRecorderClosed
	}

	_, err := fmt.Fprintf(r.f, "%d,%d,%d,%d,%d,%d\n",
		s.Address, s.XMm, s.YMm, s.ZMm, s.Quality, s.At.UnixMilli())
	if err != nil {
		return fmt.Errorf("writing sample: %w", err)
	}
	return nil
}

// Close flushes and closes the recording file. Idempotent.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.f.Close()
}

// Session returns the unique ID assigned to this recording session.
func (r *Recorder) Session() string {
	return r.session
}
