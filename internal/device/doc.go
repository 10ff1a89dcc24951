// Package device models the simulated smart devices of a home.
//
// A Device carries a type (light, door lock, thermostat, sensor...) and the
// state that type needs. Operations a type does not support return
// ErrUnsupported; commands sent to a disconnected device return
// ErrDisconnected. Every method is safe for concurrent use.
//
// # Key Types
//
//   - Device: A single device and its current state
//   - DeviceType: Classification matching the automation kinds
//   - Capability: What a device can do (on_off, dim, lock, ...)
//   - Registry: Name and ID index used by the home model
//   - Command: A JSON instruction applied to a device
//   - State: JSON snapshot returned by the API and published on MQTT
//
// # Usage
//
//	lamp, err := device.New("Main Light", device.DeviceTypeLight, "Living Room")
//	if err != nil {
//	    return err
//	}
//	_ = lamp.SetBrightness(60)
//	_ = lamp.TurnOn()
//
//	cmd, err := device.ParseCommand([]byte(`{"command":"unlock","code":"1234"}`))
//	if err == nil {
//	    err = cmd.Apply(frontDoor)
//	}
//
// Device satisfies the automation capability interfaces (Dimmer, Lock,
// Positioner, Thermostat, LightSensor, MotionSensor) structurally, so the
// automation core can drive it without importing this package.
package device
