package controller

import "time"

// EnergySample is the home's power draw at one instant plus the energy
// accumulated since the controller started.
type EnergySample struct {
	Timestamp  time.Time `json:"timestamp"`
	PowerWatts float64   `json:"power_watts"`
	EnergyKWh  float64   `json:"energy_kwh"`
	HourlyCost float64   `json:"hourly_cost"`
}

// energyMeter integrates power samples into kWh using the trapezoid rule.
type energyMeter struct {
	last      time.Time
	lastWatts float64
	kwh       float64
}

func (m *energyMeter) sample(now time.Time, watts float64) float64 {
	if !m.last.IsZero() && now.After(m.last) {
		hours := now.Sub(m.last).Hours()
		m.kwh += (m.lastWatts + watts) / 2 / 1000 * hours
	}
	m.last = now
	m.lastWatts = watts
	return m.kwh
}
