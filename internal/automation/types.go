package automation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Context is the per-tick snapshot passed to every trigger, condition and
// action. It references the environment but does not own it.
type Context struct {
	env   Environment
	epoch int64
	loc   *time.Location
}

// NewContext builds a Context for one tick. A nil location means UTC.
func NewContext(env Environment, epochSeconds int64, loc *time.Location) Context {
	if loc == nil {
		loc = time.UTC
	}
	return Context{env: env, epoch: epochSeconds, loc: loc}
}

// Environment returns the capability handle for this tick.
func (c Context) Environment() Environment { return c.env }

// EpochSeconds returns the tick timestamp.
func (c Context) EpochSeconds() int64 { return c.epoch }

// Time returns the tick timestamp in the site's location.
func (c Context) Time() time.Time {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(c.epoch, 0).In(loc)
}

// TimeOfDay returns the local wall-clock time of the tick.
func (c Context) TimeOfDay() TimeOfDay {
	return TimeOfDayOf(c.Time())
}

// Trigger gates whether a rule is considered on a tick.
type Trigger interface {
	Evaluate(c Context) (bool, error)
}

// Condition is a secondary predicate; all of a rule's conditions must hold.
type Condition interface {
	Evaluate(c Context) (bool, error)
}

// Action performs a side effect against the environment.
type Action interface {
	Execute(c Context) error
}

// Describer is implemented by triggers, conditions and actions that can
// describe themselves for diagnostics.
type Describer interface {
	Describe() string
}

// TriggerFunc adapts a function to the Trigger interface.
type TriggerFunc func(c Context) (bool, error)

func (f TriggerFunc) Evaluate(c Context) (bool, error) { return f(c) }

// ConditionFunc adapts a function to the Condition interface.
type ConditionFunc func(c Context) (bool, error)

func (f ConditionFunc) Evaluate(c Context) (bool, error) { return f(c) }

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(c Context) error

func (f ActionFunc) Execute(c Context) error { return f(c) }

// Describe returns v's description, falling back to its type name.
func Describe(v any) string {
	if d, ok := v.(Describer); ok {
		return d.Describe()
	}
	return fmt.Sprintf("%T", v)
}

// Logger defines the logging interface used by the Engine.
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

// ExecutionSource identifies what produced an execution record.
type ExecutionSource string

const (
	SourceRule  ExecutionSource = "rule"
	SourceTask  ExecutionSource = "task"
	SourceScene ExecutionSource = "scene"
)

// ExecutionStatus represents the outcome of an execution.
type ExecutionStatus string

const (
	StatusCompleted ExecutionStatus = "completed"
	StatusFailed    ExecutionStatus = "failed" // An action failed; later actions were skipped
)

// Execution records one run of a rule's actions, a scheduled task or a scene.
type Execution struct {
	ID               string          `json:"id"`
	Source           ExecutionSource `json:"source"`
	Name             string          `json:"name"`
	TriggeredAt      time.Time       `json:"triggered_at"`
	Status           ExecutionStatus `json:"status"`
	ActionsTotal     int             `json:"actions_total"`
	ActionsCompleted int             `json:"actions_completed"`
	FailedAt         *string         `json:"failed_at,omitempty"`
	Error            *string         `json:"error,omitempty"`
	DurationMS       int             `json:"duration_ms"`
}

// GenerateID creates a new unique identifier for an execution.
func GenerateID() string {
	return uuid.NewString()
}
