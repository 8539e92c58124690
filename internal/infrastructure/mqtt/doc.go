// Package mqtt provides the optional MQTT publishing bus for BeaconTrack Core.
//
// When enabled, every merged device position is published to
// beacontrack/position/<address> and tracking run-state changes to
// beacontrack/system/tracking, so external consumers can follow live
// coordinates without polling the HTTP API.
//
// The client wraps eclipse/paho.mqtt.golang with:
//   - Auto-reconnect with exponential backoff
//   - Last Will and Testament on beacontrack/system/status for offline detection
//   - Retained online/offline status messages
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.PublishPosition(101, 3.21, 4.87, 78)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package mqtt
