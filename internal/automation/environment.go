package automation

// Device kinds understood by the built-in predicates and actions.
const (
	KindLight             = "light"
	KindSmartPlug         = "smart_plug"
	KindDoorLock          = "door_lock"
	KindCamera            = "camera"
	KindThermostat        = "thermostat"
	KindBlinds            = "blinds"
	KindTV                = "tv"
	KindLightSensor       = "light_sensor"
	KindMotionSensor      = "motion_sensor"
	KindTemperatureSensor = "temperature_sensor"
)

// Environment is the capability surface the automation core consumes. It is
// implemented by the home model; the core never depends on concrete devices.
//
// Lookups return an error wrapping ErrNotFound when the room or device does
// not exist.
type Environment interface {
	Room(name string) (Room, error)
	DeviceByName(name string) (Device, error)
	DevicesByKind(kind string) []Device
	IsSecurityArmed() bool
	ArmSecurity() error
	DisarmSecurity() error
}

// Room is a named group of devices and sensors.
type Room interface {
	Name() string
	Devices() []Device
}

// Device is the base capability every device offers.
type Device interface {
	Name() string
	Kind() string
	IsOn() bool
	TurnOn() error
	TurnOff() error
}

// Dimmer is a device with adjustable brightness (0..100).
type Dimmer interface {
	SetBrightness(percent int) error
}

// Lock is a lockable device.
type Lock interface {
	Lock() error
	Unlock(code string) error
	IsLocked() bool
}

// Positioner is a device with a 0..100 position, such as blinds.
type Positioner interface {
	SetPosition(percent int) error
}

// Thermostat accepts a target temperature in degrees Celsius.
type Thermostat interface {
	SetTargetTemperature(celsius float64) error
}

// LightSensor reports whether ambient light is below the dark threshold.
type LightSensor interface {
	IsDark() bool
}

// MotionSensor reports recent motion.
type MotionSensor interface {
	MotionDetected() bool
}

// devicesOfKind filters devices by kind, preserving order.
func devicesOfKind(devices []Device, kind string) []Device {
	var out []Device
	for _, d := range devices {
		if d.Kind() == kind {
			out = append(out, d)
		}
	}
	return out
}
