package influxdb

import (
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// Measurement names.
const (
	// measurementPosition holds per-device position telemetry.
	measurementPosition = "position"
)

// WritePosition queues one device position for batched writing.
//
// This satisfies the tracking synchroniser's TelemetryWriter interface.
// The write is non-blocking: the point is appended to the in-memory
// batch and flushed in the background. Failures surface through the
// SetOnError callback, never to the caller.
//
// Parameters:
//   - address: Device address (stored as a tag for per-device queries)
//   - x, y: Coordinates in metres
//   - quality: Reported fix quality
func (c *Client) WritePosition(address uint8, x, y float64, quality uint8) {
	point := influxdb2.NewPoint(
		measurementPosition,
		map[string]string{
			"address": strconv.Itoa(int(address)),
		},
		map[string]interface{}{
			"x":       x,
			"y":       y,
			"quality": int64(quality),
		},
		time.Now().UTC(),
	)
	c.writeAPI.WritePoint(point)
}
