// Package monitor runs the polling service that keeps device state fresh
// and fans it out to consumers.
//
// The monitor discovers the account's devices at startup, then refreshes
// them sequentially on a fixed interval. The vendor cloud rate-limits
// aggressively, so devices are never refreshed concurrently.
//
// After each refresh the monitor:
//   - publishes entity states to MQTT (retained, per-entity topics)
//   - records state samples to InfluxDB
//   - updates Prometheus gauges
//
// MQTT and InfluxDB are optional; the monitor runs read-only without them.
// When MQTT is connected it also subscribes to imou/command/+/+ and relays
// switch commands to the cloud.
//
// An embedded HTTP server (chi) exposes health, device listings, per-device
// diagnostics and the Prometheus scrape endpoint.
package monitor
