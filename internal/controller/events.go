package controller

import (
	"time"

	"github.com/nerrad567/smarthome-core/internal/automation"
	"github.com/nerrad567/smarthome-core/internal/device"
	"github.com/nerrad567/smarthome-core/internal/scheduler"
)

// Event types published to sinks.
const (
	EventRuleExecuted   = "rule.executed"
	EventTaskExecuted   = "task.executed"
	EventSceneActivated = "scene.activated"
	EventDeviceState    = "device.state"
	EventSecurity       = "security.changed"
	EventEnergy         = "energy.sample"
)

// Event is a notification of something the controller did.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// EventSink receives controller events. Implementations must not block for
// long; they are called from the controller goroutine.
type EventSink interface {
	Publish(e Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(e Event)

func (f EventSinkFunc) Publish(e Event) { f(e) }

// Metrics records tick and energy measurements.
type Metrics interface {
	RecordEngineTick(report automation.TickReport)
	RecordTaskRuns(runs []scheduler.TaskRun)
	RecordEnergy(sample EnergySample)
}

// SecurityPayload is published with EventSecurity.
type SecurityPayload struct {
	Armed bool `json:"armed"`
}

// DevicePayload is published with EventDeviceState.
type DevicePayload = device.State
