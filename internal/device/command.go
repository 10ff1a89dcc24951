package device

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Command names accepted by Apply.
const (
	CommandOn          = "on"
	CommandOff         = "off"
	CommandToggle      = "toggle"
	CommandBrightness  = "brightness"
	CommandPosition    = "position"
	CommandTemperature = "temperature"
	CommandLock        = "lock"
	CommandUnlock      = "unlock"
	CommandLightLevel  = "light_level"
	CommandMotion      = "motion"
	CommandRecord      = "record"
	CommandStopRecord  = "stop_record"
	CommandConnect     = "connect"
	CommandDisconnect  = "disconnect"
)

// Command is a device instruction received over MQTT or the REST API.
//
//	{"command": "brightness", "brightness": 60}
//	{"command": "unlock", "code": "1234"}
//	{"command": "motion", "motion": true}
type Command struct {
	Command     string   `json:"command"`
	Brightness  *int     `json:"brightness,omitempty"`
	Position    *int     `json:"position,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Code        string   `json:"code,omitempty"`
	LightLevel  *int     `json:"light_level,omitempty"`
	Motion      *bool    `json:"motion,omitempty"`
}

// ParseCommand decodes a JSON command. A bare word such as "on" is also
// accepted as a payload.
func ParseCommand(payload []byte) (Command, error) {
	var cmd Command
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return cmd, fmt.Errorf("%w: empty payload", ErrInvalidCommand)
	}
	if !strings.HasPrefix(trimmed, "{") {
		cmd.Command = strings.ToLower(trimmed)
		return cmd, nil
	}
	if err := json.Unmarshal([]byte(trimmed), &cmd); err != nil {
		return cmd, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	cmd.Command = strings.ToLower(strings.TrimSpace(cmd.Command))
	return cmd, nil
}

// Apply executes the command against d.
func (c Command) Apply(d *Device) error {
	switch c.Command {
	case CommandOn:
		return d.TurnOn()
	case CommandOff:
		return d.TurnOff()
	case CommandToggle:
		if d.IsOn() {
			return d.TurnOff()
		}
		return d.TurnOn()
	case CommandBrightness:
		if c.Brightness == nil {
			return fmt.Errorf("%w: %s needs brightness", ErrInvalidCommand, c.Command)
		}
		return d.SetBrightness(*c.Brightness)
	case CommandPosition:
		if c.Position == nil {
			return fmt.Errorf("%w: %s needs position", ErrInvalidCommand, c.Command)
		}
		return d.SetPosition(*c.Position)
	case CommandTemperature:
		if c.Temperature == nil {
			return fmt.Errorf("%w: %s needs temperature", ErrInvalidCommand, c.Command)
		}
		return d.SetTargetTemperature(*c.Temperature)
	case CommandLock:
		return d.Lock()
	case CommandUnlock:
		return d.Unlock(c.Code)
	case CommandLightLevel:
		if c.LightLevel == nil {
			return fmt.Errorf("%w: %s needs light_level", ErrInvalidCommand, c.Command)
		}
		return d.SetLightLevel(*c.LightLevel)
	case CommandMotion:
		if c.Motion == nil {
			return fmt.Errorf("%w: %s needs motion", ErrInvalidCommand, c.Command)
		}
		return d.SetMotion(*c.Motion)
	case CommandRecord:
		return d.StartRecording()
	case CommandStopRecord:
		return d.StopRecording()
	case CommandConnect:
		d.SetConnected(true)
		return nil
	case CommandDisconnect:
		d.SetConnected(false)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCommand, c.Command)
	}
}
