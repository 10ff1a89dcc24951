package automation

import (
	"errors"
	"fmt"
)

// Domain errors for the automation package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, automation.ErrNotFound) {
//	    // treat as condition false
//	}
var (
	// ErrInvalidRule is returned when a rule fails add-time validation. Every
	// configuration error below wraps it.
	ErrInvalidRule = errors.New("rule: invalid")

	// ErrInvalidName is returned when a rule name is empty or too long.
	ErrInvalidName = fmt.Errorf("%w: name", ErrInvalidRule)

	// ErrNilTrigger is returned when a rule has no trigger.
	ErrNilTrigger = fmt.Errorf("%w: nil trigger", ErrInvalidRule)

	// ErrNilCondition is returned when a rule contains a nil condition.
	ErrNilCondition = fmt.Errorf("%w: nil condition", ErrInvalidRule)

	// ErrNilAction is returned when a rule or scene contains a nil action.
	ErrNilAction = fmt.Errorf("%w: nil action", ErrInvalidRule)

	// ErrDuplicateRule is returned when a rule with the same name is already registered.
	ErrDuplicateRule = fmt.Errorf("%w: already registered", ErrInvalidRule)

	// ErrRuleNotFound is returned when a rule name or identity is not registered.
	ErrRuleNotFound = errors.New("rule: not found")

	// ErrSceneNotFound is returned when a scene name does not exist.
	ErrSceneNotFound = errors.New("scene: not found")

	// ErrExecutionNotFound is returned when an execution ID does not exist.
	ErrExecutionNotFound = errors.New("execution: not found")

	// ErrNotFound is returned by the environment when a room or device lookup misses.
	ErrNotFound = errors.New("environment: not found")

	// ErrUnsupported is returned by the environment when a device lacks a capability.
	ErrUnsupported = errors.New("environment: capability not supported")

	// ErrPanic wraps a panic recovered from a trigger, condition or action.
	ErrPanic = errors.New("automation: panic")
)

// Phase identifies which part of a rule was running when a fault occurred.
type Phase string

// Rule evaluation phases.
const (
	PhaseTrigger   Phase = "trigger"
	PhaseCondition Phase = "condition"
	PhaseAction    Phase = "action"
)

// RuleError describes a fault raised while evaluating or executing a rule.
// Index is the position of the condition or action within the rule, or -1
// for the trigger.
type RuleError struct {
	Rule  string
	Phase Phase
	Index int
	Err   error
}

func (e *RuleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("rule %q: %s: %v", e.Rule, e.Phase, e.Err)
	}
	return fmt.Sprintf("rule %q: %s[%d]: %v", e.Rule, e.Phase, e.Index, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Location returns the phase with its index, e.g. "condition[1]".
func (e *RuleError) Location() string {
	if e.Index < 0 {
		return string(e.Phase)
	}
	return fmt.Sprintf("%s[%d]", e.Phase, e.Index)
}

// IsEvaluationFault reports whether err came from a trigger or condition.
func IsEvaluationFault(err error) bool {
	var re *RuleError
	return errors.As(err, &re) && re.Phase != PhaseAction
}

// IsActionFault reports whether err came from an action.
func IsActionFault(err error) bool {
	var re *RuleError
	return errors.As(err, &re) && re.Phase == PhaseAction
}
