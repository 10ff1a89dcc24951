package location

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nerrad567/smarthome-core/internal/device"
)

// DefaultElectricityRate is the cost per kWh used for cost estimates.
const DefaultElectricityRate = 0.12

// Room is a named space holding devices and sensors.
type Room struct {
	name   string
	floor  string
	areaM2 float64

	mu      sync.RWMutex
	devices []*device.Device
}

func (r *Room) Name() string    { return r.name }
func (r *Room) Floor() string   { return r.floor }
func (r *Room) AreaM2() float64 { return r.areaM2 }

// Devices returns the room's devices in the order they were added.
func (r *Room) Devices() []*device.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*device.Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// PowerWatts returns the combined draw of the room's devices.
func (r *Room) PowerWatts() float64 {
	var total float64
	for _, d := range r.Devices() {
		total += d.PowerWatts()
	}
	return total
}

// ActiveDevices counts devices that are on.
func (r *Room) ActiveDevices() int {
	n := 0
	for _, d := range r.Devices() {
		if d.IsOn() {
			n++
		}
	}
	return n
}

// Summary returns a JSON-friendly view of the room.
func (r *Room) Summary() RoomSummary {
	devices := r.Devices()
	s := RoomSummary{
		Name:       r.name,
		Floor:      r.floor,
		AreaM2:     r.areaM2,
		Devices:    make([]device.State, 0, len(devices)),
		PowerWatts: r.PowerWatts(),
	}
	for _, d := range devices {
		s.Devices = append(s.Devices, d.Snapshot())
	}
	return s
}

func (r *Room) add(d *device.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = append(r.devices, d)
}

// RoomSummary is the API representation of a room.
type RoomSummary struct {
	Name       string         `json:"name"`
	Floor      string         `json:"floor,omitempty"`
	AreaM2     float64        `json:"area_m2,omitempty"`
	PowerWatts float64        `json:"power_watts"`
	Devices    []device.State `json:"devices"`
}

// Home is the set of rooms and devices under control, plus the security
// system state. Room and device names are case-insensitive.
//
// Home is safe for concurrent use.
type Home struct {
	name     string
	registry *device.Registry

	mu    sync.RWMutex
	rooms []*Room
	index map[string]*Room
	armed bool
	rate  float64
}

// NewHome creates an empty, disarmed home.
func NewHome(name string) *Home {
	return &Home{
		name:     name,
		registry: device.NewRegistry(),
		index:    make(map[string]*Room),
		rate:     DefaultElectricityRate,
	}
}

func (h *Home) Name() string { return h.name }

// Registry exposes the device index.
func (h *Home) Registry() *device.Registry { return h.registry }

// SetLogger sets the logger used by the device registry.
func (h *Home) SetLogger(logger device.Logger) { h.registry.SetLogger(logger) }

// AddRoom creates a room.
func (h *Home) AddRoom(name, floor string, areaM2 float64) (*Room, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateArea(areaM2); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	k := key(name)
	if _, exists := h.index[k]; exists {
		return nil, fmt.Errorf("%w: %q", ErrRoomExists, name)
	}
	r := &Room{name: name, floor: floor, areaM2: areaM2}
	h.rooms = append(h.rooms, r)
	h.index[k] = r
	return r, nil
}

// AddDevice places d in the room named by d.Room().
func (h *Home) AddDevice(d *device.Device) error {
	room, err := h.Room(d.Room())
	if err != nil {
		return err
	}
	if err := h.registry.Add(d); err != nil {
		return err
	}
	room.add(d)
	return nil
}

// Room returns a room by case-insensitive name.
func (h *Home) Room(name string) (*Room, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.index[key(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, name)
	}
	return r, nil
}

// Rooms returns every room in the order added.
func (h *Home) Rooms() []*Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Room, len(h.rooms))
	copy(out, h.rooms)
	return out
}

// Device returns a device by case-insensitive name.
func (h *Home) Device(name string) (*device.Device, error) {
	return h.registry.ByName(name)
}

// Devices returns every device in the order added.
func (h *Home) Devices() []*device.Device {
	return h.registry.List()
}

// DevicesByType returns every device of the given type.
func (h *Home) DevicesByType(t device.DeviceType) []*device.Device {
	return h.registry.ByType(t)
}

// IsSecurityArmed reports whether the security system is armed.
func (h *Home) IsSecurityArmed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.armed
}

// ArmSecurity arms the system, switches every camera on and locks every
// door. The system is armed even if some devices fail; their errors are
// returned joined.
func (h *Home) ArmSecurity() error {
	h.mu.Lock()
	h.armed = true
	h.mu.Unlock()

	var errs []error
	for _, cam := range h.registry.ByType(device.DeviceTypeCamera) {
		if cam.IsOn() {
			continue
		}
		if err := cam.TurnOn(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, h.LockAllDoors())
	return errors.Join(errs...)
}

// DisarmSecurity disarms the system. Devices are left as they are.
func (h *Home) DisarmSecurity() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.armed = false
	return nil
}

// LockAllDoors locks every door lock.
func (h *Home) LockAllDoors() error {
	var errs []error
	for _, lock := range h.registry.ByType(device.DeviceTypeDoorLock) {
		if err := lock.Lock(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TotalPowerWatts returns the combined draw of every device.
func (h *Home) TotalPowerWatts() float64 {
	var total float64
	for _, d := range h.registry.List() {
		total += d.PowerWatts()
	}
	return total
}

// ElectricityRate returns the cost per kWh.
func (h *Home) ElectricityRate() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rate
}

// SetElectricityRate sets the cost per kWh. Negative rates are ignored.
func (h *Home) SetElectricityRate(rate float64) {
	if rate < 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rate = rate
}

// EstimatedHourlyCost is the cost of running the current load for an hour.
func (h *Home) EstimatedHourlyCost() float64 {
	return h.TotalPowerWatts() / 1000 * h.ElectricityRate()
}

// Summary is the API representation of the whole home.
type Summary struct {
	Name          string        `json:"name"`
	SecurityArmed bool          `json:"security_armed"`
	PowerWatts    float64       `json:"power_watts"`
	HourlyCost    float64       `json:"hourly_cost"`
	ActiveDevices int           `json:"active_devices"`
	Rooms         []RoomSummary `json:"rooms"`
}

// Summary returns a snapshot of the home.
func (h *Home) Summary() Summary {
	rooms := h.Rooms()
	s := Summary{
		Name:          h.name,
		SecurityArmed: h.IsSecurityArmed(),
		PowerWatts:    h.TotalPowerWatts(),
		HourlyCost:    h.EstimatedHourlyCost(),
		Rooms:         make([]RoomSummary, 0, len(rooms)),
	}
	for _, r := range rooms {
		s.ActiveDevices += r.ActiveDevices()
		s.Rooms = append(s.Rooms, r.Summary())
	}
	return s
}
