package tracking

import (
	"context"
	"time"

	"github.com/beacontrack/beacontrack-core/internal/positioning"
)

// Event channels broadcast to presentation clients.
const (
	// ChannelPosition carries merged device position updates.
	ChannelPosition = "device.position"

	// ChannelStatus carries tracking run-state transitions.
	ChannelStatus = "tracking.status"

	// ChannelLog carries operator-visible log messages.
	ChannelLog = "log.message"
)

// Tracking status values carried on ChannelStatus.
const (
	StatusRunning = "running"
	StatusHalted  = "halted"
)

// defaultYield is the pause between refresh cycles when none is configured.
// Long enough to avoid busy-spinning, short enough to stay responsive.
const defaultYield = time.Millisecond

// mmPerMetre converts raw hardware millimetres to metres.
const mmPerMetre = 1000.0

// EventSink receives events destined for presentation clients.
// The WebSocket hub satisfies this interface.
type EventSink interface {
	Broadcast(channel string, payload any)
}

// HistoryRecorder persists merged mobile-tag fixes.
type HistoryRecorder interface {
	RecordFix(ctx context.Context, fix Fix) error
}

// PositionPublisher publishes merged positions and tracking run-state
// changes to an external bus.
type PositionPublisher interface {
	PublishPosition(address uint8, x, y float64, quality uint8) error
	PublishTrackingStatus(state, reason string) error
}

// TelemetryWriter streams merged positions to a time-series sink.
// Writes are expected to be non-blocking (batched by the implementation).
type TelemetryWriter interface {
	WritePosition(address uint8, x, y float64, quality uint8)
}

// StatusEvent is the payload broadcast on ChannelStatus.
type StatusEvent struct {
	State  string `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// LogEvent is the payload broadcast on ChannelLog.
type LogEvent struct {
	Message string `json:"message"`
}

// SynchronizerOptions holds the dependencies of a Synchronizer.
// Source and Registry are required; the remaining sinks are optional.
type SynchronizerOptions struct {
	Source   positioning.Source
	Registry *Registry
	Logger   Logger

	// Yield is the pause between refresh cycles (default 1ms).
	Yield time.Duration

	History   HistoryRecorder
	Publisher PositionPublisher
	Telemetry TelemetryWriter
	Events    EventSink
}

// Synchronizer is the background loop that keeps the registry in sync
// with the positioning source.
//
// It is a process-wide singleton started at most once: Start is
// idempotent, and there is no stop operation. A source failure terminates
// the loop permanently; the registry's halted flag and a status event
// make the termination observable.
type Synchronizer struct {
	src   positioning.Source
	reg   *Registry
	log   Logger
	yield time.Duration

	history   HistoryRecorder
	publisher PositionPublisher
	telemetry TelemetryWriter
	events    EventSink
}

// NewSynchronizer creates a synchroniser from options.
func NewSynchronizer(opts SynchronizerOptions) *Synchronizer {
	log := opts.Logger
	if log == nil {
		log = noopLogger{}
	}
	yield := opts.Yield
	if yield <= 0 {
		yield = defaultYield
	}

	return &Synchronizer{
		src:       opts.Source,
		reg:       opts.Registry,
		log:       log,
		yield:     yield,
		history:   opts.History,
		publisher: opts.Publisher,
		telemetry: opts.Telemetry,
		events:    opts.Events,
	}
}

// Start launches the tracking loop in a background goroutine.
//
// The first call flips the registry run latch and returns immediately;
// subsequent calls are no-ops. The goroutine outlives the caller and runs
// until the source fails or ctx is cancelled at process shutdown.
//
// Parameters:
//   - ctx: Process-lifetime context; cancellation stops the loop at shutdown
//
// Returns:
//   - bool: true if this call started the loop
func (s *Synchronizer) Start(ctx context.Context) bool {
	if !s.reg.BeginRun() {
		s.log.Debug("tracking already running, start ignored")
		return false
	}

	go s.run(ctx)
	return true
}

// run is the tracking loop body. See the package documentation for the
// lock discipline: all source I/O happens outside the registry lock.
func (s *Synchronizer) run(ctx context.Context) {
	if err := s.src.Open(ctx); err != nil {
		s.halt("opening positioning channel", err)
		return
	}

	reports, err := s.src.ListDevices(ctx)
	if err != nil {
		s.halt("listing positioning devices", err)
		return
	}

	// Seed the registry from the initial roster. Mobile-tag
	// classification happens here, once, and never again.
	seed := make([]Device, 0, len(reports))
	for _, rep := range reports {
		seed = append(seed, Device{
			Address:     rep.Address,
			IsMobileTag: rep.Type.IsMobileTag(),
			X:           mmToM(rep.XMm),
			Y:           mmToM(rep.YMm),
			Quality:     rep.Quality,
		})
	}
	added := s.reg.Seed(seed)
	s.log.Info("tracking started", "discovered", len(reports), "seeded", added)
	s.emitStatus(StatusRunning, "")

	// watermark is the timestamp of the most recently recorded sample,
	// shared across all devices. Samples not strictly newer are dropped
	// so a refresh that has not advanced is never re-recorded.
	var watermark time.Time

	for {
		reports, err := s.src.Refresh(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("tracking loop stopped", "reason", "shutdown")
				return
			}
			s.halt("refreshing device locations", err)
			return
		}

		for _, rep := range reports {
			if rep.Quality == 0 {
				continue
			}

			x, y := mmToM(rep.XMm), mmToM(rep.YMm)
			if s.reg.MergeUpdate(rep.Address, x, y, rep.Quality) {
				s.fanOut(ctx, rep, x, y)
			}

			// Recording: mobile tags only, strictly newer samples only.
			if !rep.Type.IsMobileTag() {
				continue
			}
			if !rep.UpdatedAt.After(watermark) {
				continue
			}

			written, recErr := s.reg.TryRecord(Sample{
				Address: rep.Address,
				XMm:     rep.XMm,
				YMm:     rep.YMm,
				ZMm:     rep.ZMm,
				Quality: rep.Quality,
				At:      rep.UpdatedAt,
			})
			if recErr != nil {
				// The registry has already detached the sink.
				s.log.Error("recording stopped after write failure", "error", recErr)
				s.emitLog("recording stopped: " + recErr.Error())
				continue
			}
			if written {
				watermark = rep.UpdatedAt
			}
		}

		select {
		case <-ctx.Done():
			s.log.Info("tracking loop stopped", "reason", "shutdown")
			return
		case <-time.After(s.yield):
		}
	}
}

// fanOut delivers one merged position to the optional sinks.
// Sink failures are logged and never interrupt the loop.
func (s *Synchronizer) fanOut(ctx context.Context, rep positioning.Report, x, y float64) {
	if s.events != nil {
		s.events.Broadcast(ChannelPosition, Device{
			Address:     rep.Address,
			IsMobileTag: rep.Type.IsMobileTag(),
			X:           x,
			Y:           y,
			Quality:     rep.Quality,
		})
	}

	if s.history != nil && rep.Type.IsMobileTag() {
		fix := Fix{
			Address:   rep.Address,
			X:         x,
			Y:         y,
			Z:         mmToM(rep.ZMm),
			Quality:   rep.Quality,
			SampledAt: rep.UpdatedAt.UTC(),
		}
		if err := s.history.RecordFix(ctx, fix); err != nil {
			s.log.Warn("recording position history", "address", rep.Address, "error", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPosition(rep.Address, x, y, rep.Quality); err != nil {
			s.log.Warn("publishing position", "address", rep.Address, "error", err)
		}
	}

	if s.telemetry != nil {
		s.telemetry.WritePosition(rep.Address, x, y, rep.Quality)
	}
}

// halt terminates the loop after a source failure. The run latch stands;
// the halted flag and status event are the only way operators learn the
// loop is gone, so both are always emitted.
func (s *Synchronizer) halt(stage string, err error) {
	s.reg.MarkHalted()
	s.log.Error("tracking halted", "stage", stage, "error", err)
	s.emitStatus(StatusHalted, stage+": "+err.Error())
	s.emitLog("tracking halted: " + err.Error())

	if closeErr := s.src.Close(); closeErr != nil {
		s.log.Warn("closing positioning source", "error", closeErr)
	}
}

// emitStatus delivers a tracking state transition to presentation
// clients and, when a publisher is attached, to the external bus.
func (s *Synchronizer) emitStatus(state, reason string) {
	if s.events != nil {
		s.events.Broadcast(ChannelStatus, StatusEvent{State: state, Reason: reason})
	}
	if s.publisher != nil {
		if err := s.publisher.PublishTrackingStatus(state, reason); err != nil {
			s.log.Warn("publishing tracking status", "state", state, "error", err)
		}
	}
}

// emitLog broadcasts an operator-visible message.
func (s *Synchronizer) emitLog(msg string) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(ChannelLog, LogEvent{Message: msg})
}

// mmToM converts raw hardware millimetres to metres.
func mmToM(mm int32) float64 {
	return float64(mm) / mmPerMetre
}
