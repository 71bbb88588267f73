package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteEntityState records one entity state snapshot.
//
// The write is non-blocking; data is batched and sent asynchronously.
// State values are the generic forms produced by the device layer: bool for
// switches and binary sensors, string for sensors and selects. Nil states
// (buttons) are skipped.
//
// Parameters:
//   - deviceID: Vendor-assigned device id
//   - platform: Entity platform ("switch", "sensor", ...)
//   - entity: Entity name (e.g. "motionDetect")
//   - state: The state value to record
//
// Example:
//
//	client.WriteEntityState("8L0DF93PAZ55BD2", "switch", "motionDetect", true)
//	client.WriteEntityState("8L0DF93PAZ55BD2", "sensor", "storageUsed", "45")
func (c *Client) WriteEntityState(deviceID, platform, entity string, state any) {
	if !c.IsConnected() || state == nil {
		return
	}

	fields := map[string]interface{}{}
	switch v := state.(type) {
	case bool:
		fields["on"] = v
	case string:
		fields["value"] = v
	default:
		return
	}

	point := write.NewPoint(
		"entity_state",
		map[string]string{
			"device_id": deviceID,
			"platform":  platform,
			"entity":    entity,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDeviceOnline records a device availability sample.
//
// Parameters:
//   - deviceID: Vendor-assigned device id
//   - online: Whether the device was reachable from the cloud
func (c *Client) WriteDeviceOnline(deviceID string, online bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_online",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"online": online,
		},
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

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
