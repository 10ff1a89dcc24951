// Package influxdb provides InfluxDB connectivity for the smart-home core.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, metric writing and health monitoring.
//
// # Purpose
//
// This package stores time series for:
//   - Whole-home power draw, accumulated kWh and hourly cost
//   - Per-device power draw
//   - Rule engine tick counters and scheduled task runs
//
// Every point is tagged with the home name given to Connect.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB, home.Name())
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteEnergy(152.5, 3.25, 0.018, time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are reported via the
// SetOnError callback wrapped in ErrWriteFailed. Connection and health check errors are returned
// directly. Writes on a closed or unconnected client are dropped.
package influxdb
