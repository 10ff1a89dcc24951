package device

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid name", input: "Living Room Light", wantErr: nil},
		{name: "valid name with special characters", input: "Kitchen (Main) Light", wantErr: nil},
		{name: "empty name", input: "", wantErr: ErrInvalidName},
		{name: "whitespace only", input: "   ", wantErr: ErrInvalidName},
		{name: "too long", input: strings.Repeat("a", maxNameLength+1), wantErr: ErrInvalidName},
		{name: "max length", input: strings.Repeat("a", maxNameLength), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseDeviceType(t *testing.T) {
	tests := []struct {
		input   string
		want    DeviceType
		wantErr bool
	}{
		{input: "light", want: DeviceTypeLight},
		{input: "Smart Light", want: DeviceTypeLight},
		{input: "Door Lock", want: DeviceTypeDoorLock},
		{input: "door_lock", want: DeviceTypeDoorLock},
		{input: "LOCK", want: DeviceTypeDoorLock},
		{input: "motion sensor", want: DeviceTypeMotionSensor},
		{input: "Thermostat", want: DeviceTypeThermostat},
		{input: "toaster", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDeviceType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDeviceType) {
					t.Fatalf("ParseDeviceType(%q) error = %v, want ErrInvalidDeviceType", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDeviceType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDeviceType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateRanges(t *testing.T) {
	if err := ValidateBrightness(0); err != nil {
		t.Errorf("ValidateBrightness(0) = %v", err)
	}
	if err := ValidateBrightness(101); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ValidateBrightness(101) = %v, want ErrInvalidState", err)
	}
	if err := ValidatePosition(-1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ValidatePosition(-1) = %v, want ErrInvalidState", err)
	}
	if err := ValidateTemperature(15); err != nil {
		t.Errorf("ValidateTemperature(15) = %v", err)
	}
	if err := ValidateTemperature(30.5); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ValidateTemperature(30.5) = %v, want ErrInvalidState", err)
	}
}
