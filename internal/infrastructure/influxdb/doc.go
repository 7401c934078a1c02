// Package influxdb provides InfluxDB connectivity for the EcoRecicle core.
//
// It wraps the official influxdb-client-go v2 library with patterns for
// connection management, event writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Device lifecycle events (registrations, collections)
//   - Aggregated recycling snapshots for long-term trend analysis
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "ecorecicle",
//	    Bucket: "recycling",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteDeviceEvent("registered", "laptop", rec.ID)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via
// the SetOnError callback. Connection and health check errors are
// returned directly.
package influxdb
