package device

import (
	"errors"
	"testing"
	"time"
)

func newTestDevice(t *testing.T, typ DeviceType, opts ...Option) *Device {
	t.Helper()
	d, err := New("Test "+string(typ), typ, "Living Room", opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestNew(t *testing.T) {
	d := newTestDevice(t, DeviceTypeLight)
	if d.ID() == "" {
		t.Error("ID should be generated")
	}
	if d.IsOn() {
		t.Error("new device should be off")
	}
	if !d.Connected() {
		t.Error("new device should be connected")
	}
	if d.Brightness() != DefaultBrightness {
		t.Errorf("Brightness() = %d, want %d", d.Brightness(), DefaultBrightness)
	}

	if _, err := New("", DeviceTypeLight, "x"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("New with empty name error = %v, want ErrInvalidName", err)
	}
	if _, err := New("Thing", DeviceType("toaster"), "x"); !errors.Is(err, ErrInvalidDeviceType) {
		t.Errorf("New with bad type error = %v, want ErrInvalidDeviceType", err)
	}
}

func TestTurnOnOff(t *testing.T) {
	d := newTestDevice(t, DeviceTypeSmartPlug)
	if err := d.TurnOn(); err != nil {
		t.Fatalf("TurnOn() error = %v", err)
	}
	if !d.IsOn() {
		t.Error("IsOn() = false after TurnOn")
	}
	if err := d.TurnOff(); err != nil {
		t.Fatalf("TurnOff() error = %v", err)
	}
	if d.IsOn() {
		t.Error("IsOn() = true after TurnOff")
	}
}

func TestDisconnectedDeviceRejectsCommands(t *testing.T) {
	d := newTestDevice(t, DeviceTypeLight)
	d.SetConnected(false)

	if err := d.TurnOn(); !errors.Is(err, ErrDisconnected) {
		t.Errorf("TurnOn() error = %v, want ErrDisconnected", err)
	}
	if err := d.SetBrightness(50); !errors.Is(err, ErrDisconnected) {
		t.Errorf("SetBrightness() error = %v, want ErrDisconnected", err)
	}
	if d.IsOn() {
		t.Error("disconnected device should stay off")
	}
}

func TestSensorsCannotBeSwitched(t *testing.T) {
	for _, typ := range []DeviceType{DeviceTypeLightSensor, DeviceTypeMotionSensor, DeviceTypeTemperatureSensor} {
		d := newTestDevice(t, typ)
		if err := d.TurnOn(); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s TurnOn() error = %v, want ErrUnsupported", typ, err)
		}
	}
}

func TestSetBrightness(t *testing.T) {
	d := newTestDevice(t, DeviceTypeLight)
	if err := d.SetBrightness(60); err != nil {
		t.Fatalf("SetBrightness(60) error = %v", err)
	}
	if d.Brightness() != 60 {
		t.Errorf("Brightness() = %d, want 60", d.Brightness())
	}
	if d.IsOn() {
		t.Error("SetBrightness should not switch the light on")
	}
	if err := d.SetBrightness(150); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SetBrightness(150) error = %v, want ErrInvalidState", err)
	}

	plug := newTestDevice(t, DeviceTypeSmartPlug)
	if err := plug.SetBrightness(50); !errors.Is(err, ErrUnsupported) {
		t.Errorf("plug SetBrightness error = %v, want ErrUnsupported", err)
	}
}

func TestDoorLock(t *testing.T) {
	d := newTestDevice(t, DeviceTypeDoorLock)
	if !d.IsLocked() {
		t.Fatal("door lock should start locked")
	}

	if err := d.Unlock("0000"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Unlock(wrong) error = %v, want ErrInvalidCode", err)
	}
	if !d.IsLocked() {
		t.Error("lock opened with wrong code")
	}
	if err := d.Unlock(DefaultLockCode); err != nil {
		t.Fatalf("Unlock(default) error = %v", err)
	}
	if d.IsLocked() {
		t.Error("lock still locked after correct code")
	}

	// Turning a lock on locks it.
	if err := d.TurnOn(); err != nil {
		t.Fatalf("TurnOn() error = %v", err)
	}
	if !d.IsLocked() {
		t.Error("TurnOn should lock the door")
	}
	// Turning it off leaves it locked.
	if err := d.TurnOff(); err != nil {
		t.Fatalf("TurnOff() error = %v", err)
	}
	if !d.IsLocked() {
		t.Error("TurnOff should not unlock the door")
	}
}

func TestChangeLockCode(t *testing.T) {
	d := newTestDevice(t, DeviceTypeDoorLock, WithLockCode("9999"))
	if err := d.ChangeLockCode("1234", "1111"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("ChangeLockCode(wrong old) error = %v, want ErrInvalidCode", err)
	}
	if err := d.ChangeLockCode("9999", "1111"); err != nil {
		t.Fatalf("ChangeLockCode() error = %v", err)
	}
	if err := d.Unlock("1111"); err != nil {
		t.Errorf("Unlock(new code) error = %v", err)
	}
}

func TestBlinds(t *testing.T) {
	d := newTestDevice(t, DeviceTypeBlinds)
	if err := d.TurnOn(); err != nil {
		t.Fatalf("TurnOn() error = %v", err)
	}
	if d.Position() != 100 {
		t.Errorf("Position() after TurnOn = %d, want 100", d.Position())
	}
	if err := d.SetPosition(0); err != nil {
		t.Fatalf("SetPosition(0) error = %v", err)
	}
	if d.IsOn() {
		t.Error("closed blinds should report off")
	}
	if err := d.SetPosition(40); err != nil {
		t.Fatalf("SetPosition(40) error = %v", err)
	}
	if !d.IsOn() {
		t.Error("partly open blinds should report on")
	}
	if err := d.TurnOff(); err != nil {
		t.Fatalf("TurnOff() error = %v", err)
	}
	if d.Position() != 0 {
		t.Errorf("Position() after TurnOff = %d, want 0", d.Position())
	}
}

func TestThermostat(t *testing.T) {
	d := newTestDevice(t, DeviceTypeThermostat)
	if err := d.SetTargetTemperature(21.5); err != nil {
		t.Fatalf("SetTargetTemperature() error = %v", err)
	}
	if d.TargetTemperature() != 21.5 {
		t.Errorf("TargetTemperature() = %v, want 21.5", d.TargetTemperature())
	}
	if err := d.SetTargetTemperature(35); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SetTargetTemperature(35) error = %v, want ErrInvalidState", err)
	}
}

func TestLightSensorDarkThreshold(t *testing.T) {
	d := newTestDevice(t, DeviceTypeLightSensor)
	if d.IsDark() {
		t.Error("default light level should not be dark")
	}
	tests := []struct {
		lux  int
		dark bool
	}{
		{lux: 0, dark: true},
		{lux: 99, dark: true},
		{lux: 100, dark: false},
		{lux: 5000, dark: false},
	}
	for _, tt := range tests {
		if err := d.SetLightLevel(tt.lux); err != nil {
			t.Fatalf("SetLightLevel(%d) error = %v", tt.lux, err)
		}
		if got := d.IsDark(); got != tt.dark {
			t.Errorf("IsDark() at %d lux = %v, want %v", tt.lux, got, tt.dark)
		}
	}
	if err := d.SetLightLevel(-1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SetLightLevel(-1) error = %v, want ErrInvalidState", err)
	}
}

func TestCameraRecording(t *testing.T) {
	d := newTestDevice(t, DeviceTypeCamera)
	if err := d.StartRecording(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("StartRecording() while off error = %v, want ErrInvalidState", err)
	}
	_ = d.TurnOn()
	if err := d.StartRecording(); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	_ = d.TurnOff()
	if d.IsRecording() {
		t.Error("TurnOff should stop recording")
	}
}

func TestPowerWatts(t *testing.T) {
	light := newTestDevice(t, DeviceTypeLight)
	if got := light.PowerWatts(); got != 0 {
		t.Errorf("off light power = %v, want 0", got)
	}
	_ = light.SetBrightness(50)
	_ = light.TurnOn()
	if got := light.PowerWatts(); got != 5 {
		t.Errorf("light at 50%% power = %v, want 5", got)
	}

	thermo := newTestDevice(t, DeviceTypeThermostat)
	_ = thermo.SetCurrentTemperature(18)
	_ = thermo.SetTargetTemperature(22)
	_ = thermo.TurnOn()
	if got := thermo.PowerWatts(); got != thermostatFan+thermostatHeat {
		t.Errorf("heating thermostat power = %v, want %v", got, thermostatFan+thermostatHeat)
	}
}

func TestSnapshot(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	d := newTestDevice(t, DeviceTypeDoorLock, WithID("lock-1"), WithClock(func() time.Time { return fixed }))

	s := d.Snapshot()
	if s.ID != "lock-1" {
		t.Errorf("ID = %q, want lock-1", s.ID)
	}
	if s.Locked == nil || !*s.Locked {
		t.Error("Locked should be set and true")
	}
	if s.Brightness != nil {
		t.Error("Brightness should be omitted for a lock")
	}
	if !s.UpdatedAt.Equal(fixed) {
		t.Errorf("UpdatedAt = %v, want %v", s.UpdatedAt, fixed)
	}
}
