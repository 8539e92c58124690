// Package positioning defines the boundary to the indoor positioning hardware.
//
// The low-level driver (serial/USB framing, device discovery, coordinate
// decoding) lives outside this repository. This package specifies the
// Source interface the tracking synchroniser consumes, the Report type
// a source yields, and the device-type classification that separates
// mobile tags from fixed beacons.
//
// A simulated source (sim.go) is provided for development and tests so the
// full stack can run without hardware attached.
//
// # Usage
//
//	src, err := positioning.New(cfg.Positioning)
//	if err != nil {
//	    return err
//	}
//	if err := src.Open(ctx); err != nil {
//	    return err
//	}
//	reports, err := src.ListDevices(ctx)
//
// # Thread Safety
//
// A Source is used by a single goroutine (the tracking synchroniser).
// Implementations are not required to be safe for concurrent use.
package positioning
