// Package influxdb provides InfluxDB connectivity for Imou Core.
//
// It wraps the official influxdb-client-go v2 library with Imou Core-specific
// patterns for connection management, entity state recording, and health
// monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Entity state history (switches, sensors, binary sensors, selects)
//   - Device availability history
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "imou",
//	    Bucket:  "devices",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteEntityState("8L0DF93PAZ55BD2", "switch", "motionDetect", true)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a
// callback. Connection and health check errors are returned directly.
package influxdb
