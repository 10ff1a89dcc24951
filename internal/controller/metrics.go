package controller

import (
	"time"

	"github.com/nerrad567/smarthome-core/internal/automation"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/smarthome-core/internal/location"
	"github.com/nerrad567/smarthome-core/internal/scheduler"
)

// MetricsWriter is the subset of *influxdb.Client used for metrics.
type MetricsWriter interface {
	WriteEnergy(powerWatts, energyKWh, hourlyCost float64, ts time.Time)
	WriteDevicePower(device, room, deviceType string, powerWatts float64, on bool, ts time.Time)
	WriteEngineTick(tick influxdb.EngineTick, ts time.Time)
	WriteTaskRun(description string, ok bool, duration time.Duration, ts time.Time)
}

// InfluxMetrics implements Metrics on top of InfluxDB. Per-device power is
// written every deviceEvery energy samples to keep cardinality down.
type InfluxMetrics struct {
	w           MetricsWriter
	home        *location.Home
	deviceEvery int
	samples     int
}

// NewInfluxMetrics creates a metrics recorder. deviceEvery <= 0 disables
// per-device points.
func NewInfluxMetrics(w MetricsWriter, home *location.Home, deviceEvery int) *InfluxMetrics {
	return &InfluxMetrics{w: w, home: home, deviceEvery: deviceEvery}
}

func (m *InfluxMetrics) RecordEngineTick(report automation.TickReport) {
	m.w.WriteEngineTick(influxdb.EngineTick{
		RulesEvaluated:   report.RulesEvaluated,
		RulesFired:       report.RulesFired,
		EvaluationFaults: report.EvaluationFaults,
		ActionFaults:     report.ActionFaults,
		Duration:         report.Duration,
	}, time.Unix(report.EpochSeconds, 0))
}

func (m *InfluxMetrics) RecordTaskRuns(runs []scheduler.TaskRun) {
	for _, r := range runs {
		m.w.WriteTaskRun(r.Description, r.Err == nil, r.Duration, r.FiredAt)
	}
}

func (m *InfluxMetrics) RecordEnergy(s EnergySample) {
	m.w.WriteEnergy(s.PowerWatts, s.EnergyKWh, s.HourlyCost, s.Timestamp)

	m.samples++
	if m.deviceEvery <= 0 || m.samples%m.deviceEvery != 0 {
		return
	}
	for _, d := range m.home.Devices() {
		m.w.WriteDevicePower(d.Name(), d.Room(), string(d.Type()), d.PowerWatts(), d.IsOn(), s.Timestamp)
	}
}
