package automation

import (
	"errors"
	"fmt"
	"strings"
)

// ─── Triggers ───────────────────────────────────────────────────────────────

// Always is a trigger that holds on every tick.
type Always struct{}

func (Always) Evaluate(Context) (bool, error) { return true, nil }
func (Always) Describe() string               { return "always" }

// TimeAfter holds when the tick's local time of day is strictly after At,
// so a rule for 18:00 first holds at 18:00:01.
type TimeAfter struct {
	At TimeOfDay
}

func (t TimeAfter) Evaluate(c Context) (bool, error) {
	return c.TimeOfDay() > t.At, nil
}

func (t TimeAfter) Describe() string { return "time after " + t.At.String() }

// TimeBetween holds when the local time of day lies in [From, To). A window
// whose end is before its start wraps past midnight.
type TimeBetween struct {
	From TimeOfDay
	To   TimeOfDay
}

func (t TimeBetween) Evaluate(c Context) (bool, error) {
	now := c.TimeOfDay()
	if t.From <= t.To {
		return now >= t.From && now < t.To, nil
	}
	return now >= t.From || now < t.To, nil
}

func (t TimeBetween) Describe() string {
	return fmt.Sprintf("time between %s and %s", t.From, t.To)
}

// ─── Conditions ─────────────────────────────────────────────────────────────

// RoomDark holds when the room's light sensor reports dark. A room without a
// light sensor is assumed dark; a missing room does not match.
type RoomDark struct {
	Room string
}

func (d RoomDark) Evaluate(c Context) (bool, error) {
	room, err := c.Environment().Room(d.Room)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, dev := range devicesOfKind(room.Devices(), KindLightSensor) {
		if s, ok := dev.(LightSensor); ok {
			return s.IsDark(), nil
		}
	}
	return true, nil
}

func (d RoomDark) Describe() string { return fmt.Sprintf("%s is dark", d.Room) }

// MotionIn holds when any motion sensor in the room reports motion.
type MotionIn struct {
	Room string
}

func (m MotionIn) Evaluate(c Context) (bool, error) {
	room, err := c.Environment().Room(m.Room)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, dev := range devicesOfKind(room.Devices(), KindMotionSensor) {
		if s, ok := dev.(MotionSensor); ok && s.MotionDetected() {
			return true, nil
		}
	}
	return false, nil
}

func (m MotionIn) Describe() string { return fmt.Sprintf("motion in %s", m.Room) }

// SecurityArmed holds when the security system is armed.
type SecurityArmed struct{}

func (SecurityArmed) Evaluate(c Context) (bool, error) {
	return c.Environment().IsSecurityArmed(), nil
}

func (SecurityArmed) Describe() string { return "security armed" }

// DeviceOn holds when the named device is on. A missing device does not match.
type DeviceOn struct {
	Device string
}

func (d DeviceOn) Evaluate(c Context) (bool, error) {
	dev, err := c.Environment().DeviceByName(d.Device)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return dev.IsOn(), nil
}

func (d DeviceOn) Describe() string { return fmt.Sprintf("%s is on", d.Device) }

// Not negates a condition. Faults propagate unchanged.
func Not(c Condition) Condition {
	return not{inner: c}
}

type not struct {
	inner Condition
}

func (n not) Evaluate(c Context) (bool, error) {
	ok, err := n.inner.Evaluate(c)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (n not) Describe() string { return "not " + Describe(n.inner) }

// ─── Actions ────────────────────────────────────────────────────────────────

// TurnOnRoomLights sets every light in the room to Brightness and turns it
// on. A missing room is a no-op.
type TurnOnRoomLights struct {
	Room       string
	Brightness int
}

func (a TurnOnRoomLights) Execute(c Context) error {
	room, err := c.Environment().Room(a.Room)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, dev := range devicesOfKind(room.Devices(), KindLight) {
		if dim, ok := dev.(Dimmer); ok {
			if err := dim.SetBrightness(a.Brightness); err != nil {
				return fmt.Errorf("setting brightness on %s: %w", dev.Name(), err)
			}
		}
		if err := dev.TurnOn(); err != nil {
			return fmt.Errorf("turning on %s: %w", dev.Name(), err)
		}
	}
	return nil
}

func (a TurnOnRoomLights) Describe() string {
	return fmt.Sprintf("turn on %s lights at %d%%", a.Room, a.Brightness)
}

// TurnOffRoomLights turns off every light in the room. A missing room is a no-op.
type TurnOffRoomLights struct {
	Room string
}

func (a TurnOffRoomLights) Execute(c Context) error {
	room, err := c.Environment().Room(a.Room)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, dev := range devicesOfKind(room.Devices(), KindLight) {
		if err := dev.TurnOff(); err != nil {
			return fmt.Errorf("turning off %s: %w", dev.Name(), err)
		}
	}
	return nil
}

func (a TurnOffRoomLights) Describe() string { return fmt.Sprintf("turn off %s lights", a.Room) }

// TurnOnDevice turns on a device by name. A missing device is an action fault.
type TurnOnDevice struct {
	Device string
}

func (a TurnOnDevice) Execute(c Context) error {
	dev, err := c.Environment().DeviceByName(a.Device)
	if err != nil {
		return err
	}
	return dev.TurnOn()
}

func (a TurnOnDevice) Describe() string { return "turn on " + a.Device }

// TurnOffDevice turns off a device by name. A missing device is an action fault.
type TurnOffDevice struct {
	Device string
}

func (a TurnOffDevice) Execute(c Context) error {
	dev, err := c.Environment().DeviceByName(a.Device)
	if err != nil {
		return err
	}
	return dev.TurnOff()
}

func (a TurnOffDevice) Describe() string { return "turn off " + a.Device }

// TurnOffAll turns off every device that is not a sensor, lock or camera.
type TurnOffAll struct{}

func (TurnOffAll) Execute(c Context) error {
	for _, kind := range []string{KindLight, KindSmartPlug, KindThermostat, KindBlinds, KindTV} {
		for _, dev := range c.Environment().DevicesByKind(kind) {
			if err := dev.TurnOff(); err != nil {
				return fmt.Errorf("turning off %s: %w", dev.Name(), err)
			}
		}
	}
	return nil
}

func (TurnOffAll) Describe() string { return "turn off all devices" }

// LockAllDoors locks every door lock.
type LockAllDoors struct{}

func (LockAllDoors) Execute(c Context) error {
	var errs []error
	for _, dev := range c.Environment().DevicesByKind(KindDoorLock) {
		l, ok := dev.(Lock)
		if !ok {
			continue
		}
		if err := l.Lock(); err != nil {
			errs = append(errs, fmt.Errorf("locking %s: %w", dev.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (LockAllDoors) Describe() string { return "lock all doors" }

// CamerasOn turns on every camera.
type CamerasOn struct{}

func (CamerasOn) Execute(c Context) error {
	for _, dev := range c.Environment().DevicesByKind(KindCamera) {
		if err := dev.TurnOn(); err != nil {
			return fmt.Errorf("turning on %s: %w", dev.Name(), err)
		}
	}
	return nil
}

func (CamerasOn) Describe() string { return "turn on cameras" }

// ArmSecurity arms the security system.
type ArmSecurity struct{}

func (ArmSecurity) Execute(c Context) error { return c.Environment().ArmSecurity() }
func (ArmSecurity) Describe() string        { return "arm security" }

// DisarmSecurity disarms the security system.
type DisarmSecurity struct{}

func (DisarmSecurity) Execute(c Context) error { return c.Environment().DisarmSecurity() }
func (DisarmSecurity) Describe() string        { return "disarm security" }

// SetTemperature sets a thermostat's target. An empty Device targets every
// thermostat; with Device set the target must be a thermostat.
type SetTemperature struct {
	Device  string
	Celsius float64
	TurnOn  bool
}

func (a SetTemperature) Execute(c Context) error {
	var targets []Device
	if a.Device == "" {
		targets = c.Environment().DevicesByKind(KindThermostat)
	} else {
		dev, err := c.Environment().DeviceByName(a.Device)
		if err != nil {
			return err
		}
		if dev.Kind() != KindThermostat {
			return fmt.Errorf("%w: %s is a %s", ErrUnsupported, dev.Name(), dev.Kind())
		}
		targets = []Device{dev}
	}
	for _, dev := range targets {
		t, ok := dev.(Thermostat)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupported, dev.Name())
		}
		if err := t.SetTargetTemperature(a.Celsius); err != nil {
			return fmt.Errorf("setting %s: %w", dev.Name(), err)
		}
		if a.TurnOn {
			if err := dev.TurnOn(); err != nil {
				return fmt.Errorf("turning on %s: %w", dev.Name(), err)
			}
		}
	}
	return nil
}

func (a SetTemperature) Describe() string {
	target := a.Device
	if target == "" {
		target = "all thermostats"
	}
	return fmt.Sprintf("set %s to %.1f°C", target, a.Celsius)
}

// SetRoomBlinds moves every blind in the room to Position (0 closed, 100 open).
type SetRoomBlinds struct {
	Room     string
	Position int
}

func (a SetRoomBlinds) Execute(c Context) error {
	room, err := c.Environment().Room(a.Room)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, dev := range devicesOfKind(room.Devices(), KindBlinds) {
		p, ok := dev.(Positioner)
		if !ok {
			continue
		}
		if err := p.SetPosition(a.Position); err != nil {
			return fmt.Errorf("moving %s: %w", dev.Name(), err)
		}
	}
	return nil
}

func (a SetRoomBlinds) Describe() string {
	return fmt.Sprintf("set %s blinds to %d%%", a.Room, a.Position)
}

// ─── Composite rules ────────────────────────────────────────────────────────

// Motion light defaults.
const (
	MotionLightAfter      = 18 * 3600
	MotionLightBrightness = 70
)

// MotionLightRule turns a room's lights on at 70% when motion is detected
// there after 18:00.
func MotionLightRule(room string) *Rule {
	name := fmt.Sprintf("Motion Light (%s)", room)
	return NewRule(name, MotionIn{Room: room}).
		AddCondition(TimeAfter{At: TimeOfDay(MotionLightAfter)}).
		AddAction(TurnOnRoomLights{Room: room, Brightness: MotionLightBrightness})
}

// describeList joins descriptions of the given values.
func describeList[T any](items []T) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, Describe(it))
	}
	return strings.Join(parts, ", ")
}
