package location

import (
	"fmt"

	"github.com/nerrad567/smarthome-core/internal/device"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/config"
)

// Names used by the default home.
const (
	LivingRoom = "Living Room"
	Kitchen    = "Kitchen"
	Bedroom    = "Bedroom"
)

type deviceSpec struct {
	name string
	typ  device.DeviceType
}

type roomSpec struct {
	name    string
	floor   string
	areaM2  float64
	devices []deviceSpec
}

var defaultLayout = []roomSpec{
	{
		name: LivingRoom, floor: "Ground Floor", areaM2: 30,
		devices: []deviceSpec{
			{"Main Light", device.DeviceTypeLight},
			{"Ambience Light", device.DeviceTypeLight},
			{"Nest", device.DeviceTypeThermostat},
			{"Front Cam", device.DeviceTypeCamera},
			{"Front Door", device.DeviceTypeDoorLock},
			{"TV Plug", device.DeviceTypeSmartPlug},
			{"Living Blinds", device.DeviceTypeBlinds},
			{"Living TV", device.DeviceTypeTV},
			{"Living Ambient", device.DeviceTypeLightSensor},
			{"Living Motion", device.DeviceTypeMotionSensor},
		},
	},
	{
		name: Kitchen, floor: "Ground Floor", areaM2: 18,
		devices: []deviceSpec{
			{"Kitchen Light", device.DeviceTypeLight},
			{"Kitchen Ambient", device.DeviceTypeLightSensor},
		},
	},
	{
		name: Bedroom, floor: "First Floor", areaM2: 20,
		devices: []deviceSpec{
			{"Bedroom Light", device.DeviceTypeLight},
			{"Bedroom Ambient", device.DeviceTypeLightSensor},
		},
	},
}

// DefaultHome builds the three-room demo home: a living room with lights,
// thermostat, camera, door lock, plug, blinds, TV and sensors, plus a
// kitchen and a bedroom with a light and a light sensor each.
func DefaultHome(name, lockCode string) *Home {
	if name == "" {
		name = "My Smart Home"
	}
	h, err := build(name, lockCode, defaultLayout)
	if err != nil {
		// The layout is static; failure here is a programming error.
		panic(err)
	}
	return h
}

// FromConfig builds a home from configuration. With no rooms configured the
// default home is returned.
func FromConfig(cfg config.HomeConfig) (*Home, error) {
	if len(cfg.Rooms) == 0 {
		return DefaultHome(cfg.Name, cfg.LockCode), nil
	}
	layout := make([]roomSpec, 0, len(cfg.Rooms))
	for _, rc := range cfg.Rooms {
		rs := roomSpec{name: rc.Name, floor: rc.Floor, areaM2: rc.AreaM2}
		for _, dc := range rc.Devices {
			typ, err := device.ParseDeviceType(dc.Type)
			if err != nil {
				return nil, fmt.Errorf("room %q device %q: %w", rc.Name, dc.Name, err)
			}
			rs.devices = append(rs.devices, deviceSpec{name: dc.Name, typ: typ})
		}
		layout = append(layout, rs)
	}
	return build(cfg.Name, cfg.LockCode, layout)
}

func build(name, lockCode string, layout []roomSpec) (*Home, error) {
	h := NewHome(name)
	for _, rs := range layout {
		if _, err := h.AddRoom(rs.name, rs.floor, rs.areaM2); err != nil {
			return nil, err
		}
		for _, ds := range rs.devices {
			var opts []device.Option
			if ds.typ == device.DeviceTypeDoorLock && lockCode != "" {
				opts = append(opts, device.WithLockCode(lockCode))
			}
			d, err := device.New(ds.name, ds.typ, rs.name, opts...)
			if err != nil {
				return nil, fmt.Errorf("room %q: %w", rs.name, err)
			}
			if err := h.AddDevice(d); err != nil {
				return nil, fmt.Errorf("room %q: %w", rs.name, err)
			}
		}
	}
	return h, nil
}
