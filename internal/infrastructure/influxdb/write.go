package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDeviceEvent records a device lifecycle event.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - event: Lifecycle event name ("registered" or "collected")
//   - deviceType: Device type tag (e.g., "smartphone")
//   - deviceID: Unique identifier for the device record
//
// Example:
//
//	client.WriteDeviceEvent("registered", "laptop", rec.ID)
func (c *Client) WriteDeviceEvent(event string, deviceType string, deviceID string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_events",
		map[string]string{
			"event": event,
			"type":  deviceType,
		},
		map[string]interface{}{
			"device_id": deviceID,
			"count":     1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSnapshot records an aggregated metrics snapshot.
//
// Snapshots give InfluxDB a time series of the dashboard's headline
// numbers, so trends survive beyond the in-memory record set.
//
// Parameters:
//   - registered: Total number of registered records
//   - collected: Number of records already collected
//   - byType: Count of records per device type tag
func (c *Client) WriteSnapshot(registered int, collected int, byType map[string]int) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"registered": registered,
		"collected":  collected,
	}
	for deviceType, count := range byType {
		fields["type_"+deviceType] = count
	}

	point := write.NewPoint(
		"recycling_snapshot",
		map[string]string{},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
