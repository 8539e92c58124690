// Package api provides the HTTP REST API and WebSocket server for BeaconTrack Core.
//
// It exposes the tracking command surface (start tracking, load floorplan,
// recording control), device reads, position history, and a WebSocket feed
// of live position and status events to user interfaces.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
