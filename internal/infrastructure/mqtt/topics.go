package mqtt

import "fmt"

// Topic prefixes for the EcoRecicle MQTT hierarchy.
//
// Core topics carry domain events: ecorecicle/core/{entity}/{id}/{event}
// System topics carry service status: ecorecicle/system/{topic}
const (
	// TopicPrefixCore is the base for all domain event topics.
	TopicPrefixCore = "ecorecicle/core"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "ecorecicle/system"
)

// Topics provides builders for EcoRecicle MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.DeviceRegistered("a1b2c3")
//	// Returns: "ecorecicle/core/device/a1b2c3/registered"
type Topics struct{}

// DeviceRegistered returns the topic for device registration events.
//
// Example: ecorecicle/core/device/a1b2c3/registered
func (Topics) DeviceRegistered(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/registered", TopicPrefixCore, deviceID)
}

// DeviceCollected returns the topic for device collection events.
//
// Example: ecorecicle/core/device/a1b2c3/collected
func (Topics) DeviceCollected(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/collected", TopicPrefixCore, deviceID)
}

// Notification returns the topic for dashboard notification events.
//
// Example: ecorecicle/core/notification
func (Topics) Notification() string {
	return fmt.Sprintf("%s/notification", TopicPrefixCore)
}

// Metrics returns the topic for aggregated metrics snapshots.
//
// Example: ecorecicle/core/metrics
func (Topics) Metrics() string {
	return fmt.Sprintf("%s/metrics", TopicPrefixCore)
}

// SystemStatus returns the service status topic.
//
// Example: ecorecicle/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDeviceEvents returns a pattern matching all device lifecycle events.
//
// Pattern: ecorecicle/core/device/+/+
func (Topics) AllDeviceEvents() string {
	return fmt.Sprintf("%s/device/+/+", TopicPrefixCore)
}
