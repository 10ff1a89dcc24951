package device

import (
	"errors"
	"sync"
	"testing"
)

func TestRegistryAddAndLookup(t *testing.T) {
	r := NewRegistry()
	lamp := MustNew("Main Light", DeviceTypeLight, "Living Room")
	plug := MustNew("TV Plug", DeviceTypeSmartPlug, "Living Room")
	kitchen := MustNew("Kitchen Light", DeviceTypeLight, "Kitchen")

	for _, d := range []*Device{lamp, plug, kitchen} {
		if err := r.Add(d); err != nil {
			t.Fatalf("Add(%s) error = %v", d.Name(), err)
		}
	}

	if err := r.Add(MustNew("main light", DeviceTypeLight, "Bedroom")); !errors.Is(err, ErrDeviceExists) {
		t.Errorf("duplicate Add error = %v, want ErrDeviceExists", err)
	}

	got, err := r.ByName("MAIN LIGHT")
	if err != nil || got != lamp {
		t.Errorf("ByName() = %v, %v; want main light", got, err)
	}
	got, err = r.Get(plug.ID())
	if err != nil || got != plug {
		t.Errorf("Get() = %v, %v; want plug", got, err)
	}
	if _, err := r.ByName("Nope"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("ByName(missing) error = %v, want ErrDeviceNotFound", err)
	}

	lights := r.ByType(DeviceTypeLight)
	if len(lights) != 2 || lights[0] != lamp || lights[1] != kitchen {
		t.Errorf("ByType(light) = %v, want [lamp kitchen] in order", lights)
	}
	if n := len(r.ByRoom("living room")); n != 2 {
		t.Errorf("ByRoom(living room) = %d devices, want 2", n)
	}
	if n := len(r.ByCapability(CapDim)); n != 2 {
		t.Errorf("ByCapability(dim) = %d devices, want 2", n)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	lamp := MustNew("Lamp", DeviceTypeLight, "Hall")
	_ = r.Add(lamp)

	if err := r.Remove("lamp"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if r.Count() != 0 {
		t.Errorf("Count() = %d, want 0", r.Count())
	}
	if _, err := r.Get(lamp.ID()); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Get() after remove error = %v, want ErrDeviceNotFound", err)
	}
	if err := r.Remove("lamp"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("second Remove() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestRegistryStats(t *testing.T) {
	r := NewRegistry()
	lamp := MustNew("Lamp", DeviceTypeLight, "Hall")
	door := MustNew("Door", DeviceTypeDoorLock, "Hall")
	_ = r.Add(lamp)
	_ = r.Add(door)
	_ = lamp.TurnOn()
	door.SetConnected(false)

	stats := r.GetStats()
	if stats.TotalDevices != 2 || stats.On != 1 || stats.Disconnected != 1 {
		t.Errorf("GetStats() = %+v", stats)
	}
	if stats.PowerWatts != lightFullPower {
		t.Errorf("PowerWatts = %v, want %v", stats.PowerWatts, lightFullPower)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	_ = r.Add(MustNew("Lamp", DeviceTypeLight, "Hall"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := r.ByName("Lamp")
			if err != nil {
				t.Error(err)
				return
			}
			_ = d.TurnOn()
			_ = r.GetStats()
		}()
	}
	wg.Wait()
}
