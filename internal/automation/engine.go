package automation

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Engine evaluates an ordered list of rules against the environment on every
// tick.
//
// Rules run sequentially in registration order, so side effects of an earlier
// rule are visible to later rules in the same tick. A fault in one rule is
// logged and never stops the tick.
//
// Thread Safety: the rule list is guarded, so AddRule, RemoveRule and Rules
// may be called while a tick is running; the tick works on a snapshot taken
// when it starts. Tick itself must not be called concurrently, and the
// environment must only be mutated by the goroutine that calls Tick.
type Engine struct {
	env    Environment
	loc    *time.Location
	logger Logger

	mu    sync.RWMutex
	rules []*Rule
}

// NewEngine creates an engine bound to env.
//
// Parameters:
//   - env: The capability surface passed to every rule through Context
//   - logger: Logger instance (may be nil)
func NewEngine(env Environment, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{env: env, loc: time.UTC, logger: logger}
}

// SetLocation sets the time zone used to derive local time of day.
func (e *Engine) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	e.loc = loc
}

// Location returns the engine's time zone.
func (e *Engine) Location() *time.Location { return e.loc }

// AddRule validates and appends a rule.
//
// Returns:
//   - error: nil on success, or a validation error (ErrInvalidName,
//     ErrNilTrigger, ErrNilCondition, ErrNilAction) or ErrDuplicateRule
func (e *Engine) AddRule(r *Rule) error {
	if err := ValidateRule(r); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.rules {
		if existing == r || strings.EqualFold(existing.name, r.name) {
			return fmt.Errorf("%w: %q", ErrDuplicateRule, r.name)
		}
	}
	e.rules = append(e.rules, r)
	return nil
}

// RemoveRule unregisters a rule by identity.
func (e *Engine) RemoveRule(r *Rule) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, existing := range e.rules {
		if existing == r {
			e.rules = append(e.rules[:i:i], e.rules[i+1:]...)
			return nil
		}
	}
	return ErrRuleNotFound
}

// Rules returns a snapshot of the registered rules in order. Changing the
// returned slice does not affect the engine.
func (e *Engine) Rules() []*Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Rule looks up a registered rule by name (case-insensitive).
func (e *Engine) Rule(name string) (*Rule, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, r := range e.rules {
		if strings.EqualFold(r.name, name) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrRuleNotFound, name)
}

// TickReport summarises one engine tick.
type TickReport struct {
	EpochSeconds     int64
	RulesEvaluated   int
	RulesFired       int
	EvaluationFaults int
	ActionFaults     int
	Duration         time.Duration
	Results          []Result
}

// Tick evaluates every rule once against a fresh Context for epochSeconds.
// It never fails; faults are logged and counted in the report.
func (e *Engine) Tick(epochSeconds int64) TickReport {
	start := time.Now()
	rules := e.Rules()
	c := NewContext(e.env, epochSeconds, e.loc)

	report := TickReport{EpochSeconds: epochSeconds, Results: make([]Result, 0, len(rules))}
	for _, r := range rules {
		res := r.EvaluateAndExecute(c)
		if res.Evaluated {
			report.RulesEvaluated++
		}
		if res.Fired {
			report.RulesFired++
		}
		if res.Err != nil {
			e.logFault(res)
			if IsActionFault(res.Err) {
				report.ActionFaults++
			} else {
				report.EvaluationFaults++
			}
		} else if res.Fired {
			e.logger.Info("rule fired", "rule", r.name, "actions", res.ActionsCompleted)
		}
		report.Results = append(report.Results, res)
	}
	report.Duration = time.Since(start)
	return report
}

func (e *Engine) logFault(res Result) {
	args := []any{"rule", res.Rule, "error", res.Err}
	if re, ok := res.Err.(*RuleError); ok {
		args = append(args, "phase", re.Location())
	}
	if IsActionFault(res.Err) {
		e.logger.Error("rule action failed, remaining actions skipped", args...)
		return
	}
	e.logger.Warn("rule evaluation failed, treated as not matched", args...)
}

// ExecutionFromResult converts a fired rule result into an execution record.
func ExecutionFromResult(res Result, triggeredAt time.Time) *Execution {
	exec := &Execution{
		ID:               GenerateID(),
		Source:           SourceRule,
		Name:             res.Rule,
		TriggeredAt:      triggeredAt.UTC(),
		Status:           StatusCompleted,
		ActionsTotal:     res.ActionsTotal,
		ActionsCompleted: res.ActionsCompleted,
		DurationMS:       int(res.Duration.Milliseconds()),
	}
	if res.Err != nil {
		exec.Status = StatusFailed
		msg := res.Err.Error()
		exec.Error = &msg
		if re, ok := res.Err.(*RuleError); ok {
			at := re.Location()
			exec.FailedAt = &at
		}
	}
	return exec
}
