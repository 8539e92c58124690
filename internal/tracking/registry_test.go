package tracking

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testDevices() []Device {
	return []Device{
		{Address: 1, IsMobileTag: false, X: 3.5, Y: 4.5},
		{Address: 2, IsMobileTag: false, X: 1.0, Y: 2.0},
		{Address: 101, IsMobileTag: true},
	}
}

func TestRegistry_Seed(t *testing.T) {
	reg := NewRegistry()

	t.Run("adds new records", func(t *testing.T) {
		added := reg.Seed(testDevices())
		if added != 3 {
			t.Errorf("Seed() added = %d, want 3", added)
		}
		if reg.DeviceCount() != 3 {
			t.Errorf("DeviceCount() = %d, want 3", reg.DeviceCount())
		}
	})

	t.Run("leaves existing addresses untouched", func(t *testing.T) {
		// Re-seed address 1 with different coordinates
		added := reg.Seed([]Device{{Address: 1, X: 99.0, Y: 99.0}})
		if added != 0 {
			t.Errorf("Seed() added = %d, want 0", added)
		}

		snap := reg.Snapshot()
		if snap[0].X != 3.5 || snap[0].Y != 4.5 {
			t.Errorf("existing record mutated: got (%v, %v), want (3.5, 4.5)", snap[0].X, snap[0].Y)
		}
	})

	t.Run("caller keeps ownership of input", func(t *testing.T) {
		reg := NewRegistry()
		input := []Device{{Address: 5, X: 1.0}}
		reg.Seed(input)

		input[0].X = 42.0
		snap := reg.Snapshot()
		if snap[0].X != 1.0 {
			t.Errorf("registry aliased caller slice: X = %v, want 1.0", snap[0].X)
		}
	})
}

func TestRegistry_MergeUpdate(t *testing.T) {
	reg := NewRegistry()
	reg.Seed(testDevices())

	tests := []struct {
		name    string
		address uint8
		x, y    float64
		quality uint8
		want    bool
	}{
		{"updates known device", 101, 2.5, 3.5, 80, true},
		{"drops quality zero", 101, 9.9, 9.9, 0, false},
		{"drops unknown address", 200, 1.0, 1.0, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.MergeUpdate(tt.address, tt.x, tt.y, tt.quality)
			if got != tt.want {
				t.Errorf("MergeUpdate() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("unknown address never creates a record", func(t *testing.T) {
		if reg.DeviceCount() != 3 {
			t.Errorf("DeviceCount() = %d, want 3", reg.DeviceCount())
		}
	})

	t.Run("merge mutates only position fields", func(t *testing.T) {
		snap := reg.Snapshot()
		var tag *Device
		for i := range snap {
			if snap[i].Address == 101 {
				tag = &snap[i]
			}
		}
		if tag == nil {
			t.Fatal("address 101 missing from snapshot")
		}
		if tag.X != 2.5 || tag.Y != 3.5 || tag.Quality != 80 {
			t.Errorf("merged record = %+v, want X=2.5 Y=3.5 Quality=80", tag)
		}
		if !tag.IsMobileTag {
			t.Error("IsMobileTag lost after merge")
		}
	})
}

func TestRegistry_Snapshot(t *testing.T) {
	reg := NewRegistry()
	reg.Seed(testDevices())

	snap := reg.Snapshot()

	t.Run("preserves insertion order", func(t *testing.T) {
		want := []uint8{1, 2, 101}
		for i, addr := range want {
			if snap[i].Address != addr {
				t.Errorf("snapshot[%d].Address = %d, want %d", i, snap[i].Address, addr)
			}
		}
	})

	t.Run("is an independent copy", func(t *testing.T) {
		snap[0].X = 1000.0
		again := reg.Snapshot()
		if again[0].X == 1000.0 {
			t.Error("snapshot aliased registry records")
		}
	})
}

func TestRegistry_RunLatch(t *testing.T) {
	reg := NewRegistry()

	if reg.Running() {
		t.Error("Running() = true before BeginRun")
	}

	if !reg.BeginRun() {
		t.Error("first BeginRun() = false, want true")
	}
	if reg.BeginRun() {
		t.Error("second BeginRun() = true, want false")
	}
	if !reg.Running() {
		t.Error("Running() = false after BeginRun")
	}

	t.Run("halted annotation leaves latch standing", func(t *testing.T) {
		reg.MarkHalted()
		if !reg.Halted() {
			t.Error("Halted() = false after MarkHalted")
		}
		if !reg.Running() {
			t.Error("Running() reset by MarkHalted")
		}
	})
}

func TestRegistry_Recording(t *testing.T) {
	reg := NewRegistry()
	path := filepath.Join(t.TempDir(), "rec.csv")

	t.Run("no sink means no-op record", func(t *testing.T) {
		written, err := reg.TryRecord(Sample{Address: 101})
		if err != nil {
			t.Fatalf("TryRecord() error = %v", err)
		}
		if written {
			t.Error("TryRecord() wrote with no sink installed")
		}
	})

	t.Run("start installs sink with session ID", func(t *testing.T) {
		session, err := reg.StartRecording(path)
		if err != nil {
			t.Fatalf("StartRecording() error = %v", err)
		}
		if session == "" {
			t.Error("StartRecording() returned empty session ID")
		}

		got, active := reg.Recording()
		if !active || got != session {
			t.Errorf("Recording() = (%q, %v), want (%q, true)", got, active, session)
		}
	})

	t.Run("samples are written while active", func(t *testing.T) {
		written, err := reg.TryRecord(Sample{
			Address: 101, XMm: 2500, YMm: 3500, ZMm: 100, Quality: 80,
			At: time.UnixMilli(1700000000000),
		})
		if err != nil {
			t.Fatalf("TryRecord() error = %v", err)
		}
		if !written {
			t.Error("TryRecord() = false, want true")
		}
	})

	t.Run("restart issues a fresh session", func(t *testing.T) {
		first, _ := reg.Recording()
		second, err := reg.StartRecording(path)
		if err != nil {
			t.Fatalf("StartRecording() error = %v", err)
		}
		if second == first {
			t.Error("restart reused the previous session ID")
		}
	})

	t.Run("stop detaches the sink", func(t *testing.T) {
		reg.StopRecording()
		if _, active := reg.Recording(); active {
			t.Error("Recording() active after StopRecording")
		}

		// Stopping again is a no-op
		reg.StopRecording()
	})

	t.Run("start fails for unwritable path", func(t *testing.T) {
		_, err := reg.StartRecording(filepath.Join(t.TempDir(), "missing", "rec.csv"))
		if err == nil {
			t.Error("StartRecording() error = nil for unwritable path")
		}
	})
}

func TestRegistry_TryRecord_WriteFailure(t *testing.T) {
	reg := NewRegistry()
	path := filepath.Join(t.TempDir(), "rec.csv")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	// Close the sink behind the registry's back to force a write failure.
	rec.Close()
	reg.recorder = rec

	written, err := reg.TryRecord(Sample{Address: 101, At: time.Now()})
	if written {
		t.Error("TryRecord() = true, want false")
	}
	if !errors.Is(err, ErrRecordingFailed) {
		t.Errorf("TryRecord() error = %v, want ErrRecordingFailed", err)
	}

	t.Run("failed sink is detached", func(t *testing.T) {
		if _, active := reg.Recording(); active {
			t.Error("Recording() still active after write failure")
		}

		// Subsequent records are silent no-ops, not repeated errors
		written, err := reg.TryRecord(Sample{Address: 101, At: time.Now()})
		if written || err != nil {
			t.Errorf("TryRecord() after failure = (%v, %v), want (false, nil)", written, err)
		}
	})
}
