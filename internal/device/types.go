package device

import "time"

// DeviceType classifies a device. Values match the kind strings used by the
// automation package.
type DeviceType string

const (
	DeviceTypeLight             DeviceType = "light"
	DeviceTypeSmartPlug         DeviceType = "smart_plug"
	DeviceTypeDoorLock          DeviceType = "door_lock"
	DeviceTypeCamera            DeviceType = "camera"
	DeviceTypeThermostat        DeviceType = "thermostat"
	DeviceTypeBlinds            DeviceType = "blinds"
	DeviceTypeTV                DeviceType = "tv"
	DeviceTypeLightSensor       DeviceType = "light_sensor"
	DeviceTypeMotionSensor      DeviceType = "motion_sensor"
	DeviceTypeTemperatureSensor DeviceType = "temperature_sensor"
)

// AllDeviceTypes returns every supported device type.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceTypeLight, DeviceTypeSmartPlug, DeviceTypeDoorLock, DeviceTypeCamera,
		DeviceTypeThermostat, DeviceTypeBlinds, DeviceTypeTV,
		DeviceTypeLightSensor, DeviceTypeMotionSensor, DeviceTypeTemperatureSensor,
	}
}

// IsSensor reports whether the type is a read-only sensor.
func (t DeviceType) IsSensor() bool {
	switch t {
	case DeviceTypeLightSensor, DeviceTypeMotionSensor, DeviceTypeTemperatureSensor:
		return true
	}
	return false
}

// Capability describes something a device can do.
type Capability string

const (
	CapOnOff           Capability = "on_off"
	CapDim             Capability = "dim"
	CapLock            Capability = "lock"
	CapPosition        Capability = "position"
	CapTemperatureSet  Capability = "temperature_set"
	CapTemperatureRead Capability = "temperature_read"
	CapLightLevel      Capability = "light_level"
	CapMotion          Capability = "motion"
	CapRecording       Capability = "recording"
	CapVolume          Capability = "volume"
)

// capabilitiesFor returns the capabilities a device type offers.
func capabilitiesFor(t DeviceType) []Capability {
	switch t {
	case DeviceTypeLight:
		return []Capability{CapOnOff, CapDim}
	case DeviceTypeSmartPlug:
		return []Capability{CapOnOff}
	case DeviceTypeDoorLock:
		return []Capability{CapOnOff, CapLock}
	case DeviceTypeCamera:
		return []Capability{CapOnOff, CapRecording}
	case DeviceTypeThermostat:
		return []Capability{CapOnOff, CapTemperatureSet, CapTemperatureRead}
	case DeviceTypeBlinds:
		return []Capability{CapOnOff, CapPosition}
	case DeviceTypeTV:
		return []Capability{CapOnOff, CapVolume}
	case DeviceTypeLightSensor:
		return []Capability{CapLightLevel}
	case DeviceTypeMotionSensor:
		return []Capability{CapMotion}
	case DeviceTypeTemperatureSensor:
		return []Capability{CapTemperatureRead}
	}
	return nil
}

// State is a JSON-friendly snapshot of a device. Fields that do not apply
// to the device type are omitted.
type State struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Type               DeviceType `json:"type"`
	Room               string     `json:"room"`
	Connected          bool       `json:"connected"`
	On                 bool       `json:"on"`
	Brightness         *int       `json:"brightness,omitempty"`
	Locked             *bool      `json:"locked,omitempty"`
	Position           *int       `json:"position,omitempty"`
	TargetTemperature  *float64   `json:"target_temperature,omitempty"`
	CurrentTemperature *float64   `json:"current_temperature,omitempty"`
	LightLevel         *int       `json:"light_level,omitempty"`
	Motion             *bool      `json:"motion,omitempty"`
	Recording          *bool      `json:"recording,omitempty"`
	Volume             *int       `json:"volume,omitempty"`
	PowerWatts         float64    `json:"power_watts"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
