package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementEnergy      = "energy"
	MeasurementDevicePower = "device_power"
	MeasurementEngineTick  = "engine_tick"
	MeasurementTaskRun     = "task_run"
)

// EngineTick is one rule engine tick's counters.
type EngineTick struct {
	RulesEvaluated   int
	RulesFired       int
	EvaluationFaults int
	ActionFaults     int
	Duration         time.Duration
}

// WriteEnergy records the home's total power draw and accumulated energy.
//
// Parameters:
//   - powerWatts: Current power draw in watts
//   - energyKWh: Energy used since start in kWh
//   - hourlyCost: Cost of running the current load for one hour
//   - ts: Sample time
func (c *Client) WriteEnergy(powerWatts, energyKWh, hourlyCost float64, ts time.Time) {
	c.write(energyPoint(c.home, powerWatts, energyKWh, hourlyCost, ts))
}

// WriteDevicePower records one device's power draw.
func (c *Client) WriteDevicePower(device, room, deviceType string, powerWatts float64, on bool, ts time.Time) {
	c.write(devicePowerPoint(c.home, device, room, deviceType, powerWatts, on, ts))
}

// WriteEngineTick records rule engine tick counters.
func (c *Client) WriteEngineTick(tick EngineTick, ts time.Time) {
	c.write(engineTickPoint(c.home, tick, ts))
}

// WriteTaskRun records one scheduled task firing.
func (c *Client) WriteTaskRun(description string, ok bool, duration time.Duration, ts time.Time) {
	c.write(taskRunPoint(c.home, description, ok, duration, ts))
}

// ─── Point Builders ─────────────────────────────────────────────────────────

func energyPoint(home string, powerWatts, energyKWh, hourlyCost float64, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementEnergy,
		map[string]string{"home": home},
		map[string]interface{}{
			"power_watts": powerWatts,
			"energy_kwh":  energyKWh,
			"hourly_cost": hourlyCost,
		},
		ts,
	)
}

func devicePowerPoint(home, device, room, deviceType string, powerWatts float64, on bool, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementDevicePower,
		map[string]string{"home": home, "device": device, "room": room, "type": deviceType},
		map[string]interface{}{"power_watts": powerWatts, "on": on},
		ts,
	)
}

func engineTickPoint(home string, tick EngineTick, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementEngineTick,
		map[string]string{"home": home},
		map[string]interface{}{
			"rules_evaluated":   tick.RulesEvaluated,
			"rules_fired":       tick.RulesFired,
			"evaluation_faults": tick.EvaluationFaults,
			"action_faults":     tick.ActionFaults,
			"duration_ms":       durationMillis(tick.Duration),
		},
		ts,
	)
}

func taskRunPoint(home, description string, ok bool, duration time.Duration, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementTaskRun,
		map[string]string{"home": home, "task": description},
		map[string]interface{}{
			"ok":          ok,
			"duration_ms": durationMillis(duration),
		},
		ts,
	)
}

func durationMillis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
