package automation

import (
	"fmt"
	"strings"
)

// Validation constants.
const (
	maxNameLength  = 100
	maxConditions  = 50
	maxActions     = 100
	minBrightness  = 0
	maxBrightness  = 100
	minTemperature = 15.0
	maxTemperature = 30.0
)

// ValidateRule checks that a rule can be registered. Faults are caught here
// rather than surfacing on the first tick.
func ValidateRule(r *Rule) error {
	if r == nil {
		return fmt.Errorf("%w: nil rule", ErrInvalidRule)
	}
	if err := ValidateName(r.name); err != nil {
		return err
	}
	if r.trigger == nil {
		return fmt.Errorf("%w: rule %q", ErrNilTrigger, r.name)
	}
	if len(r.conditions) > maxConditions {
		return fmt.Errorf("%w: rule %q exceeds maximum of %d conditions", ErrInvalidRule, r.name, maxConditions)
	}
	for i, c := range r.conditions {
		if c == nil {
			return fmt.Errorf("%w: rule %q condition %d", ErrNilCondition, r.name, i)
		}
	}
	if len(r.actions) > maxActions {
		return fmt.Errorf("%w: rule %q exceeds maximum of %d actions", ErrInvalidRule, r.name, maxActions)
	}
	for i, a := range r.actions {
		if a == nil {
			return fmt.Errorf("%w: rule %q action %d", ErrNilAction, r.name, i)
		}
	}
	return nil
}

// ValidateName checks that a rule or scene name is valid.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateBrightness checks a brightness percentage.
func ValidateBrightness(percent int) error {
	if percent < minBrightness || percent > maxBrightness {
		return fmt.Errorf("%w: brightness must be %d-%d, got %d", ErrInvalidRule, minBrightness, maxBrightness, percent)
	}
	return nil
}

// ValidateTemperature checks a thermostat target temperature.
func ValidateTemperature(celsius float64) error {
	if celsius < minTemperature || celsius > maxTemperature {
		return fmt.Errorf("%w: temperature must be %.0f-%.0f°C, got %.1f", ErrInvalidRule, minTemperature, maxTemperature, celsius)
	}
	return nil
}
