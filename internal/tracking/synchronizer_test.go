package tracking

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beacontrack/beacontrack-core/internal/positioning"
)

// fakeSource is a scripted positioning.Source for synchroniser tests.
// Refresh serves the scripted batches in order, then returns refreshErr
// if set, otherwise blocks until the context is cancelled.
type fakeSource struct {
	mu         sync.Mutex
	openErr    error
	listErr    error
	roster     []positioning.Report
	batches    [][]positioning.Report
	refreshErr error
	closed     bool
}

func (f *fakeSource) Open(_ context.Context) error {
	return f.openErr
}

func (f *fakeSource) ListDevices(_ context.Context) ([]positioning.Report, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.roster, nil
}

func (f *fakeSource) Refresh(ctx context.Context) ([]positioning.Report, error) {
	f.mu.Lock()
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return batch, nil
	}
	err := f.refreshErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// mockSink captures broadcast events.
type mockSink struct {
	mu     sync.Mutex
	events []sinkEvent
}

type sinkEvent struct {
	channel string
	payload any
}

func (m *mockSink) Broadcast(channel string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, sinkEvent{channel: channel, payload: payload})
}

func (m *mockSink) byChannel(channel string) []any {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []any
	for _, e := range m.events {
		if e.channel == channel {
			out = append(out, e.payload)
		}
	}
	return out
}

// mockHistory captures persisted fixes.
type mockHistory struct {
	mu    sync.Mutex
	fixes []Fix
}

func (m *mockHistory) RecordFix(_ context.Context, fix Fix) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixes = append(m.fixes, fix)
	return nil
}

func (m *mockHistory) all() []Fix {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Fix(nil), m.fixes...)
}

// mockPublisher captures positions and status changes sent to the bus.
type mockPublisher struct {
	mu        sync.Mutex
	positions []uint8
	statuses  []StatusEvent
}

func (m *mockPublisher) PublishPosition(address uint8, _, _ float64, _ uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = append(m.positions, address)
	return nil
}

func (m *mockPublisher) PublishTrackingStatus(state, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, StatusEvent{State: state, Reason: reason})
	return nil
}

func (m *mockPublisher) published() ([]uint8, []StatusEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint8(nil), m.positions...), append([]StatusEvent(nil), m.statuses...)
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func testRoster() []positioning.Report {
	return []positioning.Report{
		{Address: 1, Type: positioning.TypeSuperBeacon, XMm: 3500, YMm: 4500, Quality: 100},
		{Address: 101, Type: positioning.TypeSuperBeaconHedgehog, Quality: 0},
	}
}

func TestSynchronizer_StartIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry()
	src := &fakeSource{roster: testRoster()}
	s := NewSynchronizer(SynchronizerOptions{Source: src, Registry: reg})

	if !s.Start(ctx) {
		t.Fatal("first Start() = false, want true")
	}
	if s.Start(ctx) {
		t.Error("second Start() = true, want false")
	}

	waitFor(t, func() bool { return reg.DeviceCount() == 2 }, "registry never seeded")
}

func TestSynchronizer_SeedsAndClassifies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry()
	src := &fakeSource{roster: testRoster()}
	sink := &mockSink{}
	s := NewSynchronizer(SynchronizerOptions{
		Source: src, Registry: reg, Events: sink,
	})
	s.Start(ctx)

	waitFor(t, func() bool { return reg.DeviceCount() == 2 }, "registry never seeded")

	snap := reg.Snapshot()
	if snap[0].Address != 1 || snap[0].IsMobileTag {
		t.Errorf("snapshot[0] = %+v, want fixed beacon address 1", snap[0])
	}
	if snap[0].X != 3.5 || snap[0].Y != 4.5 {
		t.Errorf("beacon coordinates = (%v, %v), want (3.5, 4.5) metres", snap[0].X, snap[0].Y)
	}
	if snap[1].Address != 101 || !snap[1].IsMobileTag {
		t.Errorf("snapshot[1] = %+v, want mobile tag address 101", snap[1])
	}

	waitFor(t, func() bool { return len(sink.byChannel(ChannelStatus)) > 0 }, "no status event")
	status, ok := sink.byChannel(ChannelStatus)[0].(StatusEvent)
	if !ok || status.State != StatusRunning {
		t.Errorf("status event = %+v, want running", sink.byChannel(ChannelStatus)[0])
	}
}

func TestSynchronizer_MergeAndFanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sampleTime := time.UnixMilli(1700000000000)
	reg := NewRegistry()
	src := &fakeSource{
		roster: testRoster(),
		batches: [][]positioning.Report{
			{
				{Address: 101, Type: positioning.TypeSuperBeaconHedgehog, XMm: 2500, YMm: 3500, ZMm: 100, Quality: 80, UpdatedAt: sampleTime},
				{Address: 1, Type: positioning.TypeSuperBeacon, XMm: 3500, YMm: 4500, Quality: 0}, // no fix, dropped
			},
		},
		refreshErr: errors.New("link lost"),
	}
	sink := &mockSink{}
	history := &mockHistory{}
	pub := &mockPublisher{}
	s := NewSynchronizer(SynchronizerOptions{
		Source: src, Registry: reg, Events: sink, History: history, Publisher: pub,
	})
	s.Start(ctx)

	waitFor(t, reg.Halted, "loop never halted")

	t.Run("merged position lands in registry", func(t *testing.T) {
		snap := reg.Snapshot()
		if snap[1].X != 2.5 || snap[1].Y != 3.5 || snap[1].Quality != 80 {
			t.Errorf("tag record = %+v, want X=2.5 Y=3.5 Quality=80", snap[1])
		}
	})

	t.Run("position event broadcast", func(t *testing.T) {
		positions := sink.byChannel(ChannelPosition)
		if len(positions) != 1 {
			t.Fatalf("position events = %d, want 1", len(positions))
		}
		dev, ok := positions[0].(Device)
		if !ok || dev.Address != 101 {
			t.Errorf("position payload = %+v, want device 101", positions[0])
		}
	})

	t.Run("mobile tag fix persisted", func(t *testing.T) {
		fixes := history.all()
		if len(fixes) != 1 {
			t.Fatalf("persisted fixes = %d, want 1", len(fixes))
		}
		if fixes[0].Address != 101 || fixes[0].X != 2.5 {
			t.Errorf("fix = %+v, want address 101 at X=2.5", fixes[0])
		}
		if fixes[0].Z != 0.1 {
			t.Errorf("fix Z = %v, want 0.1 metres", fixes[0].Z)
		}
	})

	t.Run("position and statuses reach the bus", func(t *testing.T) {
		positions, statuses := pub.published()
		if len(positions) != 1 || positions[0] != 101 {
			t.Errorf("published positions = %v, want [101]", positions)
		}
		if len(statuses) != 2 {
			t.Fatalf("published statuses = %d, want 2", len(statuses))
		}
		if statuses[0].State != StatusRunning {
			t.Errorf("statuses[0] = %+v, want running", statuses[0])
		}
		if statuses[1].State != StatusHalted || !strings.Contains(statuses[1].Reason, "link lost") {
			t.Errorf("statuses[1] = %+v, want halted with cause", statuses[1])
		}
	})
}

func TestSynchronizer_HaltOnOpenFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry()
	src := &fakeSource{openErr: errors.New("no such port")}
	sink := &mockSink{}
	s := NewSynchronizer(SynchronizerOptions{Source: src, Registry: reg, Events: sink})
	s.Start(ctx)

	waitFor(t, reg.Halted, "registry never marked halted")

	if !reg.Running() {
		t.Error("run latch reset by halt")
	}
	if !src.isClosed() {
		t.Error("source not closed after halt")
	}

	statuses := sink.byChannel(ChannelStatus)
	if len(statuses) != 1 {
		t.Fatalf("status events = %d, want 1", len(statuses))
	}
	status, _ := statuses[0].(StatusEvent)
	if status.State != StatusHalted {
		t.Errorf("status = %+v, want halted", status)
	}
	if !strings.Contains(status.Reason, "no such port") {
		t.Errorf("status reason %q does not carry the cause", status.Reason)
	}
}

func TestSynchronizer_HaltOnRefreshFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry()
	src := &fakeSource{roster: testRoster(), refreshErr: errors.New("link lost")}
	sink := &mockSink{}
	s := NewSynchronizer(SynchronizerOptions{Source: src, Registry: reg, Events: sink})
	s.Start(ctx)

	waitFor(t, reg.Halted, "registry never marked halted")

	if !src.isClosed() {
		t.Error("source not closed after halt")
	}

	// Both running and halted status events were emitted, in order
	statuses := sink.byChannel(ChannelStatus)
	if len(statuses) != 2 {
		t.Fatalf("status events = %d, want 2", len(statuses))
	}
	last, _ := statuses[1].(StatusEvent)
	if last.State != StatusHalted {
		t.Errorf("final status = %+v, want halted", last)
	}
}

func TestSynchronizer_RecordingWatermark(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t1 := time.UnixMilli(1700000000000)
	t2 := t1.Add(50 * time.Millisecond)

	tag := func(ts time.Time, x int32) positioning.Report {
		return positioning.Report{
			Address: 101, Type: positioning.TypeSuperBeaconHedgehog,
			XMm: x, YMm: 3500, ZMm: 100, Quality: 80, UpdatedAt: ts,
		}
	}
	beacon := positioning.Report{
		Address: 1, Type: positioning.TypeSuperBeacon,
		XMm: 3500, YMm: 4500, Quality: 100, UpdatedAt: t1,
	}

	reg := NewRegistry()
	path := filepath.Join(t.TempDir(), "rec.csv")
	if _, err := reg.StartRecording(path); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}

	src := &fakeSource{
		roster: testRoster(),
		batches: [][]positioning.Report{
			{tag(t1, 2500), beacon}, // beacon merged but never recorded
			{tag(t1, 2600)},         // same timestamp, skipped by watermark
			{tag(t2, 2700)},         // newer, recorded
		},
		refreshErr: errors.New("link lost"),
	}
	s := NewSynchronizer(SynchronizerOptions{Source: src, Registry: reg})
	s.Start(ctx)

	waitFor(t, reg.Halted, "loop never halted")
	reg.StopRecording()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("file has %d lines, want header + 2 rows:\n%s", len(lines), string(data))
	}
	if lines[0] != RecordHeader {
		t.Errorf("header = %q, want %q", lines[0], RecordHeader)
	}
	if lines[1] != "101,2500,3500,100,80,1700000000000" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "101,2700,3500,100,80,1700000000050" {
		t.Errorf("row 2 = %q", lines[2])
	}
}
