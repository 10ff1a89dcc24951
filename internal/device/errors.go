package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device name or ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when adding a device whose name is taken.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrInvalidDevice is returned when device validation fails.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidDeviceType is returned when a device type is not recognised.
	ErrInvalidDeviceType = errors.New("device: invalid type")

	// ErrInvalidName is returned when a device name is empty or too long.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrInvalidState is returned when a requested value is out of range.
	ErrInvalidState = errors.New("device: invalid state")

	// ErrUnsupported is returned when a device lacks the requested capability.
	ErrUnsupported = errors.New("device: capability not supported")

	// ErrDisconnected is returned when commanding a disconnected device.
	ErrDisconnected = errors.New("device: disconnected")

	// ErrInvalidCode is returned when a lock is given the wrong code.
	ErrInvalidCode = errors.New("device: invalid lock code")

	// ErrInvalidCommand is returned when a command name is not recognised.
	ErrInvalidCommand = errors.New("device: invalid command")
)
