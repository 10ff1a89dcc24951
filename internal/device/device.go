package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Defaults applied by New.
const (
	DefaultBrightness   = 100
	DefaultLockCode     = "1234"
	DefaultLightLevel   = 300
	DefaultTargetTemp   = 22.0
	DefaultCurrentTemp  = 20.0
	DefaultVolume       = 20
	DefaultPlugLoadWatt = 60.0

	// DarkThresholdLux is the light level below which a sensor reports dark.
	DarkThresholdLux = 100
	// MaxLightLevel is the highest light level a sensor accepts.
	MaxLightLevel = 100000
)

// Power draw in watts.
const (
	lightFullPower    = 10.0
	plugStandbyPower  = 0.3
	lockPower         = 0.5
	cameraBasePower   = 8.0
	cameraRecordPower = 4.0
	thermostatFan     = 50.0
	thermostatHeat    = 1500.0
	thermostatCool    = 2000.0
	blindsIdlePower   = 0.2
	tvPower           = 100.0
)

// Device is a simulated smart device. Which setters apply depends on Type;
// calling one the type does not support returns ErrUnsupported.
//
// Device is safe for concurrent use.
type Device struct {
	id    string
	name  string
	typ   DeviceType
	room  string
	nowFn func() time.Time

	mu          sync.Mutex
	connected   bool
	on          bool
	brightness  int
	locked      bool
	lockCode    string
	position    int
	targetTemp  float64
	currentTemp float64
	lux         int
	motion      bool
	recording   bool
	volume      int
	loadWatts   float64
	lastUpdated time.Time
}

// Option customises a device at construction.
type Option func(*Device)

// WithLockCode sets the unlock code of a door lock.
func WithLockCode(code string) Option {
	return func(d *Device) { d.lockCode = code }
}

// WithClock sets the time source used for LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(d *Device) { d.nowFn = now }
}

// WithID sets a fixed device ID instead of a generated one.
func WithID(id string) Option {
	return func(d *Device) { d.id = id }
}

// New creates a connected, switched-off device.
//
// Parameters:
//   - name: Display name, unique within a home
//   - typ: One of the DeviceType constants
//   - room: Name of the room the device is placed in
//
// Returns:
//   - *Device: The new device
//   - error: ErrInvalidName or ErrInvalidDeviceType
func New(name string, typ DeviceType, room string, opts ...Option) (*Device, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateDeviceType(typ); err != nil {
		return nil, err
	}
	d := &Device{
		id:          uuid.NewString(),
		name:        name,
		typ:         typ,
		room:        room,
		nowFn:       time.Now,
		connected:   true,
		brightness:  DefaultBrightness,
		locked:      typ == DeviceTypeDoorLock,
		lockCode:    DefaultLockCode,
		targetTemp:  DefaultTargetTemp,
		currentTemp: DefaultCurrentTemp,
		lux:         DefaultLightLevel,
		volume:      DefaultVolume,
		loadWatts:   DefaultPlugLoadWatt,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.lastUpdated = d.nowFn()
	return d, nil
}

// MustNew is New for fixed setups; it panics on invalid input.
func MustNew(name string, typ DeviceType, room string, opts ...Option) *Device {
	d, err := New(name, typ, room, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Device) ID() string                 { return d.id }
func (d *Device) Name() string               { return d.name }
func (d *Device) Type() DeviceType           { return d.typ }
func (d *Device) Kind() string               { return string(d.typ) }
func (d *Device) Room() string               { return d.room }
func (d *Device) Capabilities() []Capability { return capabilitiesFor(d.typ) }

// HasCapability reports whether the device offers c.
func (d *Device) HasCapability(c Capability) bool {
	for _, have := range capabilitiesFor(d.typ) {
		if have == c {
			return true
		}
	}
	return false
}

func (d *Device) IsOn() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.on
}

// TurnOn switches the device on. A door lock also locks; blinds open fully.
func (d *Device) TurnOn() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.commandable(); err != nil {
		return err
	}
	d.on = true
	switch d.typ {
	case DeviceTypeDoorLock:
		d.locked = true
	case DeviceTypeBlinds:
		d.position = 100
	}
	d.touch()
	return nil
}

// TurnOff switches the device off. Blinds close and cameras stop recording.
// A door lock stays locked.
func (d *Device) TurnOff() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.commandable(); err != nil {
		return err
	}
	d.on = false
	switch d.typ {
	case DeviceTypeBlinds:
		d.position = 0
	case DeviceTypeCamera:
		d.recording = false
	}
	d.touch()
	return nil
}

// ─── Lights ─────────────────────────────────────────────────────────────────

// SetBrightness sets a light's brightness without changing its on state.
func (d *Device) SetBrightness(percent int) error {
	if err := ValidateBrightness(percent); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(DeviceTypeLight); err != nil {
		return err
	}
	d.brightness = percent
	d.touch()
	return nil
}

func (d *Device) Brightness() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.brightness
}

// ─── Locks ──────────────────────────────────────────────────────────────────

func (d *Device) Lock() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(DeviceTypeDoorLock); err != nil {
		return err
	}
	d.locked = true
	d.touch()
	return nil
}

// Unlock opens the lock if code matches.
func (d *Device) Unlock(code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(DeviceTypeDoorLock); err != nil {
		return err
	}
	if code != d.lockCode {
		return fmt.Errorf("%w: %s", ErrInvalidCode, d.name)
	}
	d.locked = false
	d.touch()
	return nil
}

// ChangeLockCode replaces the unlock code when oldCode matches.
func (d *Device) ChangeLockCode(oldCode, newCode string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.typ != DeviceTypeDoorLock {
		return fmt.Errorf("%w: %s is a %s", ErrUnsupported, d.name, d.typ)
	}
	if oldCode != d.lockCode {
		return fmt.Errorf("%w: %s", ErrInvalidCode, d.name)
	}
	if newCode == "" {
		return fmt.Errorf("%w: empty lock code", ErrInvalidState)
	}
	d.lockCode = newCode
	return nil
}

func (d *Device) IsLocked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.locked
}

// ─── Blinds ─────────────────────────────────────────────────────────────────

// SetPosition moves blinds to percent open. Any position above zero counts
// as on.
func (d *Device) SetPosition(percent int) error {
	if err := ValidatePosition(percent); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(DeviceTypeBlinds); err != nil {
		return err
	}
	d.position = percent
	d.on = percent > 0
	d.touch()
	return nil
}

func (d *Device) Position() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position
}

// ─── Thermostats ────────────────────────────────────────────────────────────

func (d *Device) SetTargetTemperature(celsius float64) error {
	if err := ValidateTemperature(celsius); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(DeviceTypeThermostat); err != nil {
		return err
	}
	d.targetTemp = celsius
	d.touch()
	return nil
}

func (d *Device) TargetTemperature() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.targetTemp
}

// SetCurrentTemperature records a measured temperature on a thermostat or
// temperature sensor.
func (d *Device) SetCurrentTemperature(celsius float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.typ != DeviceTypeThermostat && d.typ != DeviceTypeTemperatureSensor {
		return fmt.Errorf("%w: %s is a %s", ErrUnsupported, d.name, d.typ)
	}
	d.currentTemp = celsius
	d.touch()
	return nil
}

func (d *Device) CurrentTemperature() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentTemp
}

// ─── Sensors ────────────────────────────────────────────────────────────────

// SetLightLevel records an ambient light reading in lux.
func (d *Device) SetLightLevel(lux int) error {
	if lux < 0 || lux > MaxLightLevel {
		return fmt.Errorf("%w: light level must be 0-%d, got %d", ErrInvalidState, MaxLightLevel, lux)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.typ != DeviceTypeLightSensor {
		return fmt.Errorf("%w: %s is a %s", ErrUnsupported, d.name, d.typ)
	}
	d.lux = lux
	d.touch()
	return nil
}

func (d *Device) LightLevel() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lux
}

// IsDark reports whether the light level is below DarkThresholdLux.
func (d *Device) IsDark() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lux < DarkThresholdLux
}

// SetMotion records the motion state of a motion sensor.
func (d *Device) SetMotion(detected bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.typ != DeviceTypeMotionSensor {
		return fmt.Errorf("%w: %s is a %s", ErrUnsupported, d.name, d.typ)
	}
	d.motion = detected
	d.touch()
	return nil
}

func (d *Device) MotionDetected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.motion
}

// ─── Cameras ────────────────────────────────────────────────────────────────

// StartRecording starts recording on a camera that is on.
func (d *Device) StartRecording() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(DeviceTypeCamera); err != nil {
		return err
	}
	if !d.on {
		return fmt.Errorf("%w: %s is off", ErrInvalidState, d.name)
	}
	d.recording = true
	d.touch()
	return nil
}

func (d *Device) StopRecording() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(DeviceTypeCamera); err != nil {
		return err
	}
	d.recording = false
	d.touch()
	return nil
}

func (d *Device) IsRecording() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recording
}

// ─── TV ─────────────────────────────────────────────────────────────────────

func (d *Device) SetVolume(level int) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("%w: volume must be 0-100, got %d", ErrInvalidState, level)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(DeviceTypeTV); err != nil {
		return err
	}
	d.volume = level
	d.touch()
	return nil
}

// ─── Connection & status ────────────────────────────────────────────────────

// SetConnected marks the device reachable or not. A disconnected device
// rejects commands with ErrDisconnected.
func (d *Device) SetConnected(connected bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = connected
	d.touch()
}

func (d *Device) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// PowerWatts returns the device's current power draw.
func (d *Device) PowerWatts() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.powerLocked()
}

func (d *Device) powerLocked() float64 {
	switch d.typ {
	case DeviceTypeLight:
		if !d.on {
			return 0
		}
		return lightFullPower * float64(d.brightness) / 100
	case DeviceTypeSmartPlug:
		if d.on {
			return plugStandbyPower + d.loadWatts
		}
		return plugStandbyPower
	case DeviceTypeDoorLock:
		if d.connected {
			return lockPower
		}
	case DeviceTypeCamera:
		if !d.on {
			return 0
		}
		if d.recording {
			return cameraBasePower + cameraRecordPower
		}
		return cameraBasePower
	case DeviceTypeThermostat:
		if !d.on {
			return 0
		}
		switch {
		case d.currentTemp < d.targetTemp-1:
			return thermostatFan + thermostatHeat
		case d.currentTemp > d.targetTemp+1:
			return thermostatFan + thermostatCool
		}
		return thermostatFan
	case DeviceTypeBlinds:
		if d.connected {
			return blindsIdlePower
		}
	case DeviceTypeTV:
		if d.on {
			return tvPower
		}
	}
	return 0
}

// LastUpdated returns when the device state last changed.
func (d *Device) LastUpdated() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastUpdated
}

// Snapshot returns a copy of the device state.
func (d *Device) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := State{
		ID:         d.id,
		Name:       d.name,
		Type:       d.typ,
		Room:       d.room,
		Connected:  d.connected,
		On:         d.on,
		PowerWatts: d.powerLocked(),
		UpdatedAt:  d.lastUpdated,
	}
	switch d.typ {
	case DeviceTypeLight:
		s.Brightness = ptr(d.brightness)
	case DeviceTypeDoorLock:
		s.Locked = ptr(d.locked)
	case DeviceTypeBlinds:
		s.Position = ptr(d.position)
	case DeviceTypeThermostat:
		s.TargetTemperature = ptr(d.targetTemp)
		s.CurrentTemperature = ptr(d.currentTemp)
	case DeviceTypeTemperatureSensor:
		s.CurrentTemperature = ptr(d.currentTemp)
	case DeviceTypeLightSensor:
		s.LightLevel = ptr(d.lux)
	case DeviceTypeMotionSensor:
		s.Motion = ptr(d.motion)
	case DeviceTypeCamera:
		s.Recording = ptr(d.recording)
	case DeviceTypeTV:
		s.Volume = ptr(d.volume)
	}
	return s
}

func (d *Device) String() string {
	state := "OFF"
	if d.IsOn() {
		state = "ON"
	}
	return fmt.Sprintf("%s [%s] in %s - %s", d.name, d.typ, d.room, state)
}

// ─── Internal helpers (caller holds d.mu) ───────────────────────────────────

// commandable rejects on/off switching of sensors and of disconnected devices.
func (d *Device) commandable() error {
	if d.typ.IsSensor() {
		return fmt.Errorf("%w: %s is a %s", ErrUnsupported, d.name, d.typ)
	}
	if !d.connected {
		return fmt.Errorf("%w: %s", ErrDisconnected, d.name)
	}
	return nil
}

func (d *Device) require(typ DeviceType) error {
	if d.typ != typ {
		return fmt.Errorf("%w: %s is a %s", ErrUnsupported, d.name, d.typ)
	}
	if !d.connected {
		return fmt.Errorf("%w: %s", ErrDisconnected, d.name)
	}
	return nil
}

func (d *Device) touch() {
	d.lastUpdated = d.nowFn()
}

func ptr[T any](v T) *T { return &v }
