package positioning

import (
	"context"
	"time"

	"github.com/beacontrack/beacontrack-core/internal/infrastructure/config"
)

// Sim defaults applied when the configuration leaves values unset.
const (
	simDefaultMobileTags   = 2
	simDefaultFixedBeacons = 4
	simDefaultStepMm       = 25

	// simQuality is the fix quality reported for every simulated sample.
	simQuality = 100

	// simGridSpacingMm is the spacing between simulated fixed beacons.
	simGridSpacingMm = 5000

	// simMobileBaseAddr is the first address assigned to mobile tags.
	// Fixed beacons are numbered from 1.
	simMobileBaseAddr = 100
)

// SimSource is a deterministic in-process positioning source.
//
// Fixed beacons sit on a grid and never move; mobile tags advance by a
// fixed step along x on every Refresh. Timestamps advance monotonically
// with each refresh, so recording and de-duplication paths behave exactly
// as they would against real hardware.
type SimSource struct {
	mobileTags   int
	fixedBeacons int
	stepMm       int32

	open    bool
	closed  bool
	devices []Report
	now     time.Time
}

// NewSim creates a simulated source from configuration.
//
// Parameters:
//   - cfg: Simulator settings (counts and step size)
//
// Returns:
//   - *SimSource: Unopened simulated source
func NewSim(cfg config.SimConfig) *SimSource {
	tags := cfg.MobileTags
	if tags <= 0 {
		tags = simDefaultMobileTags
	}
	beacons := cfg.FixedBeacons
	if beacons <= 0 {
		beacons = simDefaultFixedBeacons
	}
	step := cfg.StepMm
	if step <= 0 {
		step = simDefaultStepMm
	}

	return &SimSource{
		mobileTags:   tags,
		fixedBeacons: beacons,
		stepMm:       int32(step),
	}
}

// Open prepares the simulated device set.
func (s *SimSource) Open(_ context.Context) error {
	if s.closed {
		return ErrClosed
	}

	s.now = time.Now().UTC()
	s.devices = s.devices[:0]

	// Fixed beacons on a grid, addresses from 1
	for i := 0; i < s.fixedBeacons; i++ {
		s.devices = append(s.devices, Report{
			Address:   uint8(i + 1),
			Type:      TypeSuperBeacon,
			XMm:       int32(i%2) * simGridSpacingMm,
			YMm:       int32(i/2) * simGridSpacingMm,
			ZMm:       0,
			Quality:   simQuality,
			UpdatedAt: s.now,
		})
	}

	// Mobile tags starting at the origin, addresses from simMobileBaseAddr
	for i := 0; i < s.mobileTags; i++ {
		s.devices = append(s.devices, Report{
			Address:   uint8(simMobileBaseAddr + i),
			Type:      TypeSuperBeaconHedgehog,
			XMm:       0,
			YMm:       int32(i) * 1000,
			ZMm:       0,
			Quality:   simQuality,
			UpdatedAt: s.now,
		})
	}

	s.open = true
	return nil
}

// ListDevices returns the current simulated device set.
func (s *SimSource) ListDevices(_ context.Context) ([]Report, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if !s.open {
		return nil, ErrNotOpen
	}
	return s.snapshot(), nil
}

// Refresh advances the simulation one step and returns the new reports.
func (s *SimSource) Refresh(_ context.Context) ([]Report, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if !s.open {
		return nil, ErrNotOpen
	}

	s.now = s.now.Add(time.Millisecond)
	for i := range s.devices {
		if !s.devices[i].Type.IsMobileTag() {
			continue
		}
		s.devices[i].XMm += s.stepMm
		s.devices[i].UpdatedAt = s.now
	}

	return s.snapshot(), nil
}

// Close shuts the simulated source down permanently.
func (s *SimSource) Close() error {
	s.closed = true
	s.open = false
	return nil
}

// snapshot returns an independent copy of the device reports.
func (s *SimSource) snapshot() []Report {
	out := make([]Report, len(s.devices))
	copy(out, s.devices)
	return out
}
