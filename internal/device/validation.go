package device

import (
	"fmt"
	"strings"
)

// Validation constants.
const (
	maxNameLength = 100

	MinTemperature = 15.0
	MaxTemperature = 30.0
)

// Pre-computed validation set for O(1) lookups.
var validDeviceTypes map[DeviceType]struct{}

// typeAliases maps the human-readable names used in configuration files
// onto device types.
var typeAliases = map[string]DeviceType{
	"smart light":        DeviceTypeLight,
	"smart plug":         DeviceTypeSmartPlug,
	"plug":               DeviceTypeSmartPlug,
	"door lock":          DeviceTypeDoorLock,
	"lock":               DeviceTypeDoorLock,
	"security camera":    DeviceTypeCamera,
	"smart blinds":       DeviceTypeBlinds,
	"smart tv":           DeviceTypeTV,
	"light sensor":       DeviceTypeLightSensor,
	"motion sensor":      DeviceTypeMotionSensor,
	"temperature sensor": DeviceTypeTemperatureSensor,
}

func init() {
	validDeviceTypes = make(map[DeviceType]struct{}, len(AllDeviceTypes()))
	for _, t := range AllDeviceTypes() {
		validDeviceTypes[t] = struct{}{}
	}
}

// ValidateName checks that a device name is non-empty and within length limits.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateDeviceType checks that t is a known device type.
func ValidateDeviceType(t DeviceType) error {
	if _, ok := validDeviceTypes[t]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceType, t)
	}
	return nil
}

// ParseDeviceType accepts a canonical type ("door_lock") or a display
// name ("Door Lock"), case-insensitively.
func ParseDeviceType(s string) (DeviceType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	t := DeviceType(strings.ReplaceAll(key, " ", "_"))
	if err := ValidateDeviceType(t); err != nil {
		return "", err
	}
	return t, nil
}

// ValidateBrightness checks a 0-100 brightness value.
func ValidateBrightness(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: brightness must be 0-100, got %d", ErrInvalidState, percent)
	}
	return nil
}

// ValidatePosition checks a 0-100 blinds position.
func ValidatePosition(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: position must be 0-100, got %d", ErrInvalidState, percent)
	}
	return nil
}

// ValidateTemperature checks a thermostat target in degrees Celsius.
func ValidateTemperature(celsius float64) error {
	if celsius < MinTemperature || celsius > MaxTemperature {
		return fmt.Errorf("%w: temperature must be %.0f-%.0f°C, got %.1f",
			ErrInvalidState, MinTemperature, MaxTemperature, celsius)
	}
	return nil
}
