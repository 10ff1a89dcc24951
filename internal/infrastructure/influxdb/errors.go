package influxdb

import "errors"

// Errors returned by Connect and HealthCheck, and passed to the
// SetOnError callback.
var (
	// ErrNotConnected is returned by HealthCheck on a closed client.
	ErrNotConnected = errors.New("influxdb: metrics client not connected")

	// ErrConnectionFailed is returned when Connect cannot ping the server.
	ErrConnectionFailed = errors.New("influxdb: metrics server unreachable")

	// ErrWriteFailed wraps a rejected energy, power, tick or task batch.
	ErrWriteFailed = errors.New("influxdb: metrics batch write failed")

	// ErrDisabled is returned by Connect when influxdb.enabled is false.
	ErrDisabled = errors.New("influxdb: metrics disabled in configuration")
)
