package automation

import (
	"errors"
	"fmt"
	"strings"
)

// ─── Fake Environment ───────────────────────────────────────────────────────

type fakeDevice struct {
	name       string
	kind       string
	on         bool
	brightness int
	locked     bool
	dark       bool
	motion     bool
	position   int
	target     float64
	failOn     bool
}

func (d *fakeDevice) Name() string { return d.name }
func (d *fakeDevice) Kind() string { return d.kind }
func (d *fakeDevice) IsOn() bool   { return d.on }

func (d *fakeDevice) TurnOn() error {
	if d.failOn {
		return errors.New("device offline")
	}
	d.on = true
	return nil
}

func (d *fakeDevice) TurnOff() error {
	d.on = false
	return nil
}

func (d *fakeDevice) SetBrightness(p int) error {
	d.brightness = p
	return nil
}

func (d *fakeDevice) Lock() error {
	d.locked = true
	return nil
}

func (d *fakeDevice) Unlock(string) error {
	d.locked = false
	return nil
}

func (d *fakeDevice) IsLocked() bool       { return d.locked }
func (d *fakeDevice) IsDark() bool         { return d.dark }
func (d *fakeDevice) MotionDetected() bool { return d.motion }

func (d *fakeDevice) SetPosition(p int) error {
	d.position = p
	d.on = p > 0
	return nil
}

func (d *fakeDevice) SetTargetTemperature(c float64) error {
	d.target = c
	return nil
}

type fakeRoom struct {
	name    string
	devices []Device
}

func (r *fakeRoom) Name() string      { return r.name }
func (r *fakeRoom) Devices() []Device { return r.devices }

type fakeEnv struct {
	rooms   []*fakeRoom
	devices []*fakeDevice
	armed   bool
}

func (e *fakeEnv) add(room string, d *fakeDevice) *fakeDevice {
	var target *fakeRoom
	for _, r := range e.rooms {
		if r.name == room {
			target = r
		}
	}
	if target == nil {
		target = &fakeRoom{name: room}
		e.rooms = append(e.rooms, target)
	}
	target.devices = append(target.devices, d)
	e.devices = append(e.devices, d)
	return d
}

func (e *fakeEnv) Room(name string) (Room, error) {
	for _, r := range e.rooms {
		if strings.EqualFold(r.name, name) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: room %q", ErrNotFound, name)
}

func (e *fakeEnv) DeviceByName(name string) (Device, error) {
	for _, d := range e.devices {
		if strings.EqualFold(d.name, name) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: device %q", ErrNotFound, name)
}

func (e *fakeEnv) DevicesByKind(kind string) []Device {
	var out []Device
	for _, d := range e.devices {
		if d.kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func (e *fakeEnv) IsSecurityArmed() bool { return e.armed }

func (e *fakeEnv) ArmSecurity() error {
	e.armed = true
	return nil
}

func (e *fakeEnv) DisarmSecurity() error {
	e.armed = false
	return nil
}

// newFakeHome returns a small home: a living room with two lights, a light
// sensor, a motion sensor, blinds and a thermostat; a hall with a door lock
// and a camera.
func newFakeHome() *fakeEnv {
	env := &fakeEnv{}
	env.add("Living Room", &fakeDevice{name: "Main Light", kind: KindLight, brightness: 100})
	env.add("Living Room", &fakeDevice{name: "Ambience Light", kind: KindLight, brightness: 100})
	env.add("Living Room", &fakeDevice{name: "Living Ambient", kind: KindLightSensor})
	env.add("Living Room", &fakeDevice{name: "Living Motion", kind: KindMotionSensor})
	env.add("Living Room", &fakeDevice{name: "Living Blinds", kind: KindBlinds})
	env.add("Living Room", &fakeDevice{name: "Nest", kind: KindThermostat, target: 22})
	env.add("Hall", &fakeDevice{name: "Front Door", kind: KindDoorLock})
	env.add("Hall", &fakeDevice{name: "Front Cam", kind: KindCamera})
	env.add("Hall", &fakeDevice{name: "TV Plug", kind: KindSmartPlug})
	return env
}

func (e *fakeEnv) device(name string) *fakeDevice {
	for _, d := range e.devices {
		if d.name == name {
			return d
		}
	}
	panic("no fake device " + name)
}

// ─── Recording predicates and actions ───────────────────────────────────────

// recorder captures the order of predicate and action calls.
type recorder struct {
	calls []string
}

func (r *recorder) predicate(name string, result bool) ConditionFunc {
	return func(Context) (bool, error) {
		r.calls = append(r.calls, name)
		return result, nil
	}
}

func (r *recorder) failing(name string, err error) ConditionFunc {
	return func(Context) (bool, error) {
		r.calls = append(r.calls, name)
		return false, err
	}
}

func (r *recorder) action(name string, err error) ActionFunc {
	return func(Context) error {
		r.calls = append(r.calls, name)
		return err
	}
}

func (r *recorder) trigger(name string, result bool) TriggerFunc {
	return func(Context) (bool, error) {
		r.calls = append(r.calls, name)
		return result, nil
	}
}

func (r *recorder) joined() string {
	return strings.Join(r.calls, ",")
}
