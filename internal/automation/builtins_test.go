package automation

import (
	"errors"
	"testing"
)

func TestTimeTriggers(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
		hour    int
		minute  int
		want    bool
	}{
		{name: "after before", trigger: TimeAfter{At: At(18, 0)}, hour: 17, minute: 59, want: false},
		{name: "after exact", trigger: TimeAfter{At: At(18, 0)}, hour: 18, minute: 0, want: false},
		{name: "after next minute", trigger: TimeAfter{At: At(18, 0)}, hour: 18, minute: 1, want: true},
		{name: "after late", trigger: TimeAfter{At: At(18, 0)}, hour: 23, minute: 59, want: true},
		{name: "between inside", trigger: TimeBetween{From: At(9, 0), To: At(17, 0)}, hour: 12, minute: 0, want: true},
		{name: "between end exclusive", trigger: TimeBetween{From: At(9, 0), To: At(17, 0)}, hour: 17, minute: 0, want: false},
		{name: "overnight late", trigger: TimeBetween{From: At(22, 0), To: At(6, 0)}, hour: 23, minute: 0, want: true},
		{name: "overnight early", trigger: TimeBetween{From: At(22, 0), To: At(6, 0)}, hour: 5, minute: 59, want: true},
		{name: "overnight day", trigger: TimeBetween{From: At(22, 0), To: At(6, 0)}, hour: 12, minute: 0, want: false},
		{name: "always", trigger: Always{}, hour: 3, minute: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.trigger.Evaluate(tickAt(nil, tt.hour, tt.minute))
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoomDark(t *testing.T) {
	env := newFakeHome()
	c := tickAt(env, 20, 0)

	if ok, _ := (RoomDark{Room: "Living Room"}).Evaluate(c); ok {
		t.Error("bright living room reported dark")
	}
	env.device("Living Ambient").dark = true
	if ok, _ := (RoomDark{Room: "living room"}).Evaluate(c); !ok {
		t.Error("dark living room not reported dark")
	}
	// No light sensor: assumed dark.
	if ok, _ := (RoomDark{Room: "Hall"}).Evaluate(c); !ok {
		t.Error("room without sensor should count as dark")
	}
	ok, err := (RoomDark{Room: "Garage"}).Evaluate(c)
	if ok || err != nil {
		t.Errorf("missing room = %v, %v; want false, nil", ok, err)
	}
}

func TestMotionAndDeviceConditions(t *testing.T) {
	env := newFakeHome()
	c := tickAt(env, 20, 0)

	if ok, _ := (MotionIn{Room: "Living Room"}).Evaluate(c); ok {
		t.Error("motion reported with none detected")
	}
	env.device("Living Motion").motion = true
	if ok, _ := (MotionIn{Room: "Living Room"}).Evaluate(c); !ok {
		t.Error("motion not reported")
	}
	if ok, _ := (MotionIn{Room: "Garage"}).Evaluate(c); ok {
		t.Error("missing room reported motion")
	}

	if ok, _ := (DeviceOn{Device: "Main Light"}).Evaluate(c); ok {
		t.Error("off light reported on")
	}
	env.device("Main Light").on = true
	if ok, _ := (DeviceOn{Device: "main light"}).Evaluate(c); !ok {
		t.Error("on light reported off")
	}
	if ok, err := (DeviceOn{Device: "Ghost"}).Evaluate(c); ok || err != nil {
		t.Errorf("missing device = %v, %v; want false, nil", ok, err)
	}

	if ok, _ := Not(SecurityArmed{}).Evaluate(c); !ok {
		t.Error("Not(armed) should hold when disarmed")
	}
	env.armed = true
	if ok, _ := (SecurityArmed{}).Evaluate(c); !ok {
		t.Error("armed not reported")
	}
}

func TestNotPropagatesFaults(t *testing.T) {
	boom := errors.New("boom")
	inner := ConditionFunc(func(Context) (bool, error) { return true, boom })
	ok, err := Not(inner).Evaluate(tickAt(nil, 12, 0))
	if ok || !errors.Is(err, boom) {
		t.Errorf("Not(faulty) = %v, %v; want false, boom", ok, err)
	}
}

func TestRoomLightActions(t *testing.T) {
	env := newFakeHome()
	c := tickAt(env, 19, 0)

	if err := (TurnOnRoomLights{Room: "Living Room", Brightness: 60}).Execute(c); err != nil {
		t.Fatalf("TurnOnRoomLights error = %v", err)
	}
	for _, name := range []string{"Main Light", "Ambience Light"} {
		d := env.device(name)
		if !d.on || d.brightness != 60 {
			t.Errorf("%s on=%v brightness=%d, want on at 60", name, d.on, d.brightness)
		}
	}
	if env.device("Living Blinds").on {
		t.Error("blinds should not be switched by a lights action")
	}

	if err := (TurnOffRoomLights{Room: "Living Room"}).Execute(c); err != nil {
		t.Fatalf("TurnOffRoomLights error = %v", err)
	}
	if env.device("Main Light").on {
		t.Error("light still on")
	}

	// Missing room is a no-op.
	if err := (TurnOnRoomLights{Room: "Garage", Brightness: 50}).Execute(c); err != nil {
		t.Errorf("missing room error = %v, want nil", err)
	}
}

func TestDeviceActions(t *testing.T) {
	env := newFakeHome()
	c := tickAt(env, 19, 0)

	if err := (TurnOnDevice{Device: "TV Plug"}).Execute(c); err != nil {
		t.Fatalf("TurnOnDevice error = %v", err)
	}
	if !env.device("TV Plug").on {
		t.Error("plug not on")
	}
	if err := (TurnOffDevice{Device: "TV Plug"}).Execute(c); err != nil {
		t.Fatalf("TurnOffDevice error = %v", err)
	}
	if err := (TurnOnDevice{Device: "Ghost"}).Execute(c); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing device error = %v, want ErrNotFound", err)
	}

	env.device("Front Cam").failOn = true
	if err := (CamerasOn{}).Execute(c); err == nil {
		t.Error("CamerasOn should report a failing camera")
	}
}

func TestTurnOffAllSparesSecurityDevices(t *testing.T) {
	env := newFakeHome()
	for _, d := range env.devices {
		d.on = true
	}
	if err := (TurnOffAll{}).Execute(tickAt(env, 23, 0)); err != nil {
		t.Fatalf("TurnOffAll error = %v", err)
	}
	for _, name := range []string{"Main Light", "Ambience Light", "Living Blinds", "Nest", "TV Plug"} {
		if env.device(name).on {
			t.Errorf("%s still on", name)
		}
	}
	if !env.device("Front Cam").on || !env.device("Front Door").on {
		t.Error("cameras and locks must be left alone")
	}
}

func TestSecurityActions(t *testing.T) {
	env := newFakeHome()
	c := tickAt(env, 23, 0)

	if err := (LockAllDoors{}).Execute(c); err != nil {
		t.Fatalf("LockAllDoors error = %v", err)
	}
	if !env.device("Front Door").locked {
		t.Error("door not locked")
	}
	if err := (ArmSecurity{}).Execute(c); err != nil || !env.armed {
		t.Errorf("ArmSecurity: err=%v armed=%v", err, env.armed)
	}
	if err := (DisarmSecurity{}).Execute(c); err != nil || env.armed {
		t.Errorf("DisarmSecurity: err=%v armed=%v", err, env.armed)
	}
}

func TestSetTemperature(t *testing.T) {
	env := newFakeHome()
	c := tickAt(env, 6, 0)

	if err := (SetTemperature{Celsius: 21, TurnOn: true}).Execute(c); err != nil {
		t.Fatalf("SetTemperature(all) error = %v", err)
	}
	nest := env.device("Nest")
	if nest.target != 21 || !nest.on {
		t.Errorf("Nest target=%v on=%v, want 21 on", nest.target, nest.on)
	}
	if err := (SetTemperature{Device: "Main Light", Celsius: 21}).Execute(c); !errors.Is(err, ErrUnsupported) {
		t.Errorf("SetTemperature(light) error = %v, want ErrUnsupported", err)
	}
	if err := (SetTemperature{Device: "Ghost", Celsius: 21}).Execute(c); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetTemperature(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSetRoomBlinds(t *testing.T) {
	env := newFakeHome()
	if err := (SetRoomBlinds{Room: "Living Room", Position: 40}).Execute(tickAt(env, 8, 0)); err != nil {
		t.Fatalf("SetRoomBlinds error = %v", err)
	}
	if env.device("Living Blinds").position != 40 {
		t.Errorf("position = %d, want 40", env.device("Living Blinds").position)
	}
}

func TestMotionLightRule(t *testing.T) {
	env := newFakeHome()
	r := MotionLightRule("Living Room")
	if r.Name() != "Motion Light (Living Room)" {
		t.Errorf("Name() = %q", r.Name())
	}

	env.device("Living Motion").motion = true
	r.EvaluateAndExecute(tickAt(env, 17, 0))
	if env.device("Main Light").on {
		t.Error("motion light fired before 18:00")
	}

	res := r.EvaluateAndExecute(tickAt(env, 21, 0))
	if !res.Fired || env.device("Main Light").brightness != MotionLightBrightness {
		t.Errorf("motion light after 18:00: fired=%v brightness=%d", res.Fired, env.device("Main Light").brightness)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{v: TimeBetween{From: At(22, 0), To: At(6, 30)}, want: "time between 22:00 and 06:30"},
		{v: Not(SecurityArmed{}), want: "not security armed"},
		{v: SetTemperature{Celsius: 18}, want: "set all thermostats to 18.0°C"},
		{v: SetRoomBlinds{Room: "Bedroom", Position: 0}, want: "set Bedroom blinds to 0%"},
		{v: ActionFunc(func(Context) error { return nil }), want: "automation.ActionFunc"},
	}
	for _, tt := range tests {
		if got := Describe(tt.v); got != tt.want {
			t.Errorf("Describe(%T) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
