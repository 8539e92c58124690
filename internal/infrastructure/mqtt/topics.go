package mqtt

import "fmt"

// Topic prefixes for BeaconTrack MQTT publications.
//
// External consumers (dashboards, loggers, integrations) subscribe to
// beacontrack/position/+ for live coordinates.
const (
	// TopicPrefix is the base for all BeaconTrack topics.
	TopicPrefix = "beacontrack"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "beacontrack/system"
)

// Topics provides builders for BeaconTrack MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// Position returns the topic for a device's position updates.
//
// Example: beacontrack/position/101
func (Topics) Position(address uint8) string {
	return fmt.Sprintf("%s/position/%d", TopicPrefix, address)
}

// TrackingStatus returns the topic for tracking run-state changes.
//
// Example: beacontrack/system/tracking
func (Topics) TrackingStatus() string {
	return TopicPrefixSystem + "/tracking"
}

// SystemStatus returns the topic for the core's online/offline status.
// Messages on this topic are retained so new subscribers see the last state.
//
// Example: beacontrack/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
