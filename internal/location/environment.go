package location

import (
	"errors"
	"fmt"

	"github.com/nerrad567/smarthome-core/internal/automation"
	"github.com/nerrad567/smarthome-core/internal/device"
)

// Environment adapts a Home to the automation capability surface. Missing
// rooms and devices are reported as automation.ErrNotFound.
func Environment(h *Home) automation.Environment {
	return homeEnvironment{home: h}
}

type homeEnvironment struct {
	home *Home
}

func (e homeEnvironment) Room(name string) (automation.Room, error) {
	r, err := e.home.Room(name)
	if err != nil {
		return nil, notFound(err)
	}
	return roomView{room: r}, nil
}

func (e homeEnvironment) DeviceByName(name string) (automation.Device, error) {
	d, err := e.home.Device(name)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (e homeEnvironment) DevicesByKind(kind string) []automation.Device {
	return asAutomation(e.home.DevicesByType(device.DeviceType(kind)))
}

func (e homeEnvironment) IsSecurityArmed() bool { return e.home.IsSecurityArmed() }
func (e homeEnvironment) ArmSecurity() error    { return e.home.ArmSecurity() }
func (e homeEnvironment) DisarmSecurity() error { return e.home.DisarmSecurity() }

type roomView struct {
	room *Room
}

func (v roomView) Name() string                 { return v.room.Name() }
func (v roomView) Devices() []automation.Device { return asAutomation(v.room.Devices()) }

func asAutomation(devices []*device.Device) []automation.Device {
	out := make([]automation.Device, len(devices))
	for i, d := range devices {
		out[i] = d
	}
	return out
}

func notFound(err error) error {
	if errors.Is(err, ErrRoomNotFound) || errors.Is(err, device.ErrDeviceNotFound) {
		return fmt.Errorf("%w: %w", automation.ErrNotFound, err)
	}
	return err
}
