package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// positionMessage is the JSON payload published for each merged position.
type positionMessage struct {
	Address   uint8   `json:"address"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Quality   uint8   `json:"q"`
	Timestamp string  `json:"timestamp"`
}

// PublishPosition publishes one merged device position.
//
// This satisfies the tracking synchroniser's PositionPublisher interface.
// The publish is fire-and-forget: delivery is handed to the paho client's
// internal queue and failures surface through the connection state, not
// through per-message errors.
//
// Parameters:
//   - address: Device address
//   - x, y: Coordinates in metres
//   - quality: Reported fix quality
//
// Returns:
//   - error: ErrNotConnected if the broker is unreachable
func (c *Client) PublishPosition(address uint8, x, y float64, quality uint8) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(positionMessage{
		Address:   address,
		X:         x,
		Y:         y,
		Quality:   quality,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshalling position message: %w", err)
	}

	c.client.Publish(Topics{}.Position(address), byte(c.cfg.QoS), false, payload)
	return nil
}

// PublishTrackingStatus publishes a tracking run-state change (retained).
//
// Parameters:
//   - state: "running" or "halted"
//   - reason: Optional failure description
//
// Returns:
//   - error: ErrNotConnected if the broker is unreachable
func (c *Client) PublishTrackingStatus(state, reason string) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(map[string]string{
		"state":     state,
		"reason":    reason,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshalling status message: %w", err)
	}

	c.client.Publish(Topics{}.TrackingStatus(), byte(c.cfg.QoS), true, payload)
	return nil
}
