package positioning

import (
	"context"
	"fmt"

	"github.com/beacontrack/beacontrack-core/internal/infrastructure/config"
)

// Source is a queryable channel to a positioning system.
//
// The lifecycle is: Open once, ListDevices once for the initial roster,
// then Refresh repeatedly for location updates. Open, ListDevices and
// Refresh may block on I/O; callers must not invoke them while holding
// shared-state locks.
type Source interface {
	// Open establishes the channel to the positioning hardware.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - error: ErrSourceUnavailable (wrapped) if the channel cannot be opened
	Open(ctx context.Context) error

	// ListDevices returns the set of devices currently known to the
	// positioning system, including their last known locations.
	//
	// Returns:
	//   - []Report: One report per discovered device
	//   - error: ErrNotOpen, or ErrSourceUnavailable (wrapped) on I/O failure
	ListDevices(ctx context.Context) ([]Report, error)

	// Refresh requests updated locations for all known devices and
	// returns the refreshed reports. May block on hardware I/O.
	//
	// Returns:
	//   - []Report: Refreshed reports, one per device
	//   - error: ErrNotOpen, or ErrSourceUnavailable (wrapped) on I/O failure
	Refresh(ctx context.Context) ([]Report, error)

	// Close releases the channel. The source cannot be reopened.
	Close() error
}

// Driver names accepted by New.
const (
	DriverSim = "sim"
)

// New creates a positioning source for the configured driver.
//
// Parameters:
//   - cfg: Positioning configuration from config.yaml
//
// Returns:
//   - Source: Unopened source; caller must call Open
//   - error: ErrUnknownDriver if the driver name is not recognised
func New(cfg config.PositioningConfig) (Source, error) {
	switch cfg.Driver {
	case DriverSim:
		return NewSim(cfg.Sim), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
