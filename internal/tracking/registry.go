package tracking

import (
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the tracking package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry is the process-wide table of tracked devices plus the
// synchroniser run state and the optional recording sink.
//
// All fields are guarded by a single coarse mutex; every operation takes
// the lock for the duration of the access. No operation holds the lock
// across a call that can block indefinitely — positioning I/O happens in
// the synchroniser, strictly outside the lock.
//
// All public methods are thread-safe.
type Registry struct {
	mu sync.Mutex

	// running latches true at the first successful run start and is
	// never reset for the life of the process.
	running bool

	// halted is set when the tracking loop terminates on a source
	// failure. running stays true; the latch has no reverse edge.
	halted bool

	// devices holds records in insertion order; index maps addresses
	// onto the same records for constant-time merge lookups.
	devices []*Device
	index   map[uint8]*Device

	// recorder is the active recording sink, nil when not recording.
	recorder *Recorder

	logger Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		index:  make(map[uint8]*Device),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Seed adds device records to the registry.
//
// Seeding happens once per tracking session at startup, and again each
// time a floorplan configuration is loaded. Records for addresses already
// present are left untouched: a record is created exactly once, and only
// position merges mutate it afterwards.
//
// Parameters:
//   - devices: Records to add (copied; caller keeps ownership)
//
// Returns:
//   - int: Number of records actually added
func (r *Registry) Seed(devices []Device) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for i := range devices {
		d := devices[i]
		if _, exists := r.index[d.Address]; exists {
			continue
		}
		rec := d.Clone()
		r.devices = append(r.devices, rec)
		r.index[rec.Address] = rec
		added++
	}

	if added > 0 {
		r.logger.Info("registry seeded", "added", added, "total", len(r.devices))
	}
	return added
}

// MergeUpdate overwrites the position of a known device.
//
// Updates with quality 0 are no-ops (no usable fix), as are updates for
// addresses never seeded: records are never created by updates, so
// samples for unknown devices are silently dropped.
//
// Parameters:
//   - address: Device address
//   - x, y: Coordinates in metres
//   - quality: Reported fix quality
//
// Returns:
//   - bool: true if a record was updated
func (r *Registry) MergeUpdate(address uint8, x, y float64, quality uint8) bool {
	if quality == 0 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.index[address]
	if !ok {
		return false
	}

	d.X = x
	d.Y = y
	d.Quality = quality
	return true
}

// Snapshot returns an independent copy of the device collection in
// insertion order. The copy never blocks longer than the critical section.
func (r *Registry) Snapshot() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, *d)
	}
	return out
}

// DeviceCount returns the number of registered devices.
func (r *Registry) DeviceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

// BeginRun latches the run flag.
//
// Returns:
//   - bool: true if this call flipped the flag (the caller owns the run),
//     false if a run was already started. The flag never resets.
func (r *Registry) BeginRun() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return false
	}
	r.running = true
	return true
}

// Running reports whether a tracking run has been started.
func (r *Registry) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// MarkHalted records that the tracking loop has terminated.
// The run latch stands; halted is a terminal annotation, not a reset.
func (r *Registry) MarkHalted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.halted = true
}

// Halted reports whether the tracking loop has terminated on a failure.
func (r *Registry) Halted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.halted
}

// StartRecording installs a recording sink.
//
// The sink file is always truncated and recreated, and the fixed header
// row written, even if recording was already active (the previous sink is
// closed first).
//
// Parameters:
//   - path: CSV file path for the new recording session
//
// Returns:
//   - string: Session ID of the new recording
//   - error: If the sink file cannot be created
func (r *Registry) StartRecording(path string) (string, error) {
	rec, err := NewRecorder(path)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	old := r.recorder
	r.recorder = rec
	r.mu.Unlock()

	if old != nil {
		if closeErr := old.Close(); closeErr != nil {
			r.logger.Warn("closing previous recording sink", "error", closeErr)
		}
	}

	r.logger.Info("recording started", "path", path, "session", rec.Session())
	return rec.Session(), nil
}

// StopRecording clears the recording sink. Safe to call when no
// recording is active.
func (r *Registry) StopRecording() {
	r.mu.Lock()
	rec := r.recorder
	r.recorder = nil
	r.mu.Unlock()

	if rec == nil {
		return
	}
	if err := rec.Close(); err != nil {
		r.logger.Warn("closing recording sink", "error", err)
	}
	r.logger.Info("recording stopped", "session", rec.Session())
}

// Recording reports the active recording session, if any.
//
// Returns:
//   - string: Session ID of the active recording ("" if none)
//   - bool: true if recording is active
func (r *Registry) Recording() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recorder == nil {
		return "", false
	}
	return r.recorder.Session(), true
}

// TryRecord appends a sample to the recording sink if one is installed.
//
// The sink-presence check and the write happen in one critical section,
// so a concurrent StopRecording either sees the write completed or
// prevents it entirely. A write failure detaches the sink (recording
// stops) and is reported to the caller; it never terminates tracking.
//
// Parameters:
//   - s: Sample to append (raw millimetre coordinates)
//
// Returns:
//   - bool: true if the sample was written
//   - error: ErrRecordingFailed (wrapped) if the sink write failed
func (r *Registry) TryRecord(s Sample) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recorder == nil {
		return false, nil
	}

	if err := r.recorder.Append(s); err != nil {
		// Detach the failed sink; tracking itself carries on.
		failed := r.recorder
		r.recorder = nil
		if closeErr := failed.Close(); closeErr != nil {
			r.logger.Warn("closing failed recording sink", "error", closeErr)
		}
		return false, fmt.Errorf("%w: %w", ErrRecordingFailed, err)
	}

	return true, nil
}
