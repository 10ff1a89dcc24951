package device

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{name: "bare word", payload: "ON", want: CommandOn},
		{name: "json", payload: `{"command":"brightness","brightness":40}`, want: CommandBrightness},
		{name: "json with padding", payload: `  {"command":" Off "} `, want: CommandOff},
		{name: "empty", payload: "", wantErr: true},
		{name: "broken json", payload: `{"command":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand([]byte(tt.payload))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCommand) {
					t.Fatalf("error = %v, want ErrInvalidCommand", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Command != tt.want {
				t.Errorf("Command = %q, want %q", cmd.Command, tt.want)
			}
		})
	}
}

func TestCommandApply(t *testing.T) {
	light := MustNew("Lamp", DeviceTypeLight, "Kitchen")
	lock := MustNew("Door", DeviceTypeDoorLock, "Hall")
	sensor := MustNew("Motion", DeviceTypeMotionSensor, "Hall")

	brightness := 30
	motion := true

	tests := []struct {
		name    string
		dev     *Device
		cmd     Command
		wantErr error
		check   func(t *testing.T)
	}{
		{
			name: "brightness",
			dev:  light,
			cmd:  Command{Command: CommandBrightness, Brightness: &brightness},
			check: func(t *testing.T) {
				if light.Brightness() != 30 {
					t.Errorf("Brightness() = %d, want 30", light.Brightness())
				}
			},
		},
		{
			name:    "brightness missing value",
			dev:     light,
			cmd:     Command{Command: CommandBrightness},
			wantErr: ErrInvalidCommand,
		},
		{
			name: "toggle",
			dev:  light,
			cmd:  Command{Command: CommandToggle},
			check: func(t *testing.T) {
				if !light.IsOn() {
					t.Error("toggle should switch the light on")
				}
			},
		},
		{
			name:    "unlock wrong code",
			dev:     lock,
			cmd:     Command{Command: CommandUnlock, Code: "0000"},
			wantErr: ErrInvalidCode,
		},
		{
			name: "unlock",
			dev:  lock,
			cmd:  Command{Command: CommandUnlock, Code: DefaultLockCode},
			check: func(t *testing.T) {
				if lock.IsLocked() {
					t.Error("lock should be open")
				}
			},
		},
		{
			name: "motion",
			dev:  sensor,
			cmd:  Command{Command: CommandMotion, Motion: &motion},
			check: func(t *testing.T) {
				if !sensor.MotionDetected() {
					t.Error("motion should be detected")
				}
			},
		},
		{
			name:    "unsupported",
			dev:     sensor,
			cmd:     Command{Command: CommandOn},
			wantErr: ErrUnsupported,
		},
		{
			name:    "unknown",
			dev:     light,
			cmd:     Command{Command: "explode"},
			wantErr: ErrInvalidCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Apply(tt.dev)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t)
			}
		})
	}
}
