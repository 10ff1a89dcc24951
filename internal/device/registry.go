package device

import (
	"fmt"
	"strings"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry indexes devices by ID and by case-insensitive name, preserving
// insertion order for listings.
//
// All public methods are thread-safe.
type Registry struct {
	mu     sync.RWMutex
	order  []*Device
	byID   map[string]*Device
	byName map[string]*Device
	logger Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]*Device),
		byName: make(map[string]*Device),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add registers a device. Names are unique regardless of case.
func (r *Registry) Add(d *Device) error {
	if d == nil {
		return ErrInvalidDevice
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nameKey(d.Name())
	if _, exists := r.byName[key]; exists {
		return fmt.Errorf("%w: %q", ErrDeviceExists, d.Name())
	}
	r.byID[d.ID()] = d
	r.byName[key] = d
	r.order = append(r.order, d)

	r.logger.Debug("device registered", "device", d.Name(), "type", d.Type(), "room", d.Room())
	return nil
}

// Remove unregisters a device by name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nameKey(name)
	d, ok := r.byName[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
	}
	delete(r.byName, key)
	delete(r.byID, d.ID())
	for i, existing := range r.order {
		if existing == d {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Info("device removed", "device", d.Name())
	return nil
}

// Get retrieves a device by ID.
func (r *Registry) Get(id string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %q", ErrDeviceNotFound, id)
	}
	return d, nil
}

// ByName retrieves a device by case-insensitive name.
func (r *Registry) ByName(name string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[nameKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
	}
	return d, nil
}

// List returns all devices in registration order.
func (r *Registry) List() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, len(r.order))
	copy(out, r.order)
	return out
}

// ByType returns devices of the given type in registration order.
func (r *Registry) ByType(t DeviceType) []*Device {
	return r.filter(func(d *Device) bool { return d.Type() == t })
}

// ByRoom returns devices placed in the named room (case-insensitive).
func (r *Registry) ByRoom(room string) []*Device {
	key := nameKey(room)
	return r.filter(func(d *Device) bool { return nameKey(d.Room()) == key })
}

// ByCapability returns devices offering the capability.
func (r *Registry) ByCapability(c Capability) []*Device {
	return r.filter(func(d *Device) bool { return d.HasCapability(c) })
}

func (r *Registry) filter(keep func(*Device) bool) []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Device
	for _, d := range r.order {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of registered devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Stats returns registry statistics for monitoring.
type Stats struct {
	TotalDevices int                `json:"total_devices"`
	On           int                `json:"on"`
	Disconnected int                `json:"disconnected"`
	PowerWatts   float64            `json:"power_watts"`
	ByType       map[DeviceType]int `json:"by_type"`
}

// GetStats returns current registry statistics.
func (r *Registry) GetStats() Stats {
	devices := r.List()
	stats := Stats{
		TotalDevices: len(devices),
		ByType:       make(map[DeviceType]int),
	}
	for _, d := range devices {
		stats.ByType[d.Type()]++
		if d.IsOn() {
			stats.On++
		}
		if !d.Connected() {
			stats.Disconnected++
		}
		stats.PowerWatts += d.PowerWatts()
	}
	return stats
}
