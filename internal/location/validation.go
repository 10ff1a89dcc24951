package location

import (
	"fmt"
	"strings"
)

const maxNameLength = 100

// ValidateName checks if a location name is valid.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateArea checks a floor area in square metres.
func ValidateArea(m2 float64) error {
	if m2 < 0 {
		return fmt.Errorf("%w: area cannot be negative", ErrInvalidRoom)
	}
	return nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
