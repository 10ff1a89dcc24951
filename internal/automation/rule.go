package automation

import (
	"fmt"
	"strings"
	"time"
)

// Rule composes one trigger, an AND-chain of conditions and an ordered list
// of actions.
//
// AddCondition, AddAction, Enable and Disable mutate the rule. Once a rule is
// registered with an Engine that is ticking, these must only be called from
// the goroutine that drives Tick.
type Rule struct {
	name       string
	trigger    Trigger
	conditions []Condition
	actions    []Action
	enabled    bool
}

// NewRule creates an enabled rule with no conditions or actions.
func NewRule(name string, trigger Trigger) *Rule {
	return &Rule{name: name, trigger: trigger, enabled: true}
}

// AddCondition appends a condition and returns the rule for chaining.
func (r *Rule) AddCondition(c Condition) *Rule {
	r.conditions = append(r.conditions, c)
	return r
}

// AddAction appends an action and returns the rule for chaining.
func (r *Rule) AddAction(a Action) *Rule {
	r.actions = append(r.actions, a)
	return r
}

func (r *Rule) Name() string       { return r.name }
func (r *Rule) Trigger() Trigger   { return r.trigger }
func (r *Rule) Enabled() bool      { return r.enabled }
func (r *Rule) Enable()            { r.enabled = true }
func (r *Rule) Disable()           { r.enabled = false }
func (r *Rule) SetEnabled(on bool) { r.enabled = on }

// Conditions returns a copy of the rule's conditions.
func (r *Rule) Conditions() []Condition {
	return append([]Condition(nil), r.conditions...)
}

// Actions returns a copy of the rule's actions.
func (r *Rule) Actions() []Action {
	return append([]Action(nil), r.actions...)
}

// Describe renders the rule as "when <trigger> if <c1> and <c2> then <a1>, <a2>".
func (r *Rule) Describe() string {
	var b strings.Builder
	b.WriteString("when ")
	b.WriteString(Describe(r.trigger))
	for i, c := range r.conditions {
		if i == 0 {
			b.WriteString(" if ")
		} else {
			b.WriteString(" and ")
		}
		b.WriteString(Describe(c))
	}
	b.WriteString(" then ")
	for i, a := range r.actions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Describe(a))
	}
	return b.String()
}

// Result reports what happened when a rule was evaluated.
type Result struct {
	Rule                string
	Evaluated           bool // the rule was enabled when the tick reached it
	Fired               bool // trigger and all conditions held
	ConditionsEvaluated int
	ActionsTotal        int
	ActionsCompleted    int
	Duration            time.Duration
	Err                 error // *RuleError when a fault occurred
}

// EvaluateAndExecute runs the rule against c.
//
// A disabled rule makes no calls at all. The trigger is evaluated first, then
// conditions left to right, stopping at the first false one. Actions run in
// order only when everything held. A trigger or condition fault counts as
// false; an action fault skips the remaining actions. Panics are recovered
// and reported the same way as returned errors.
func (r *Rule) EvaluateAndExecute(c Context) (res Result) {
	res = Result{Rule: r.name, ActionsTotal: len(r.actions)}
	if !r.enabled {
		return res
	}
	res.Evaluated = true
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	ok, err := evaluate(r.trigger, c)
	if err != nil {
		res.Err = &RuleError{Rule: r.name, Phase: PhaseTrigger, Index: -1, Err: err}
		return res
	}
	if !ok {
		return res
	}

	for i, cond := range r.conditions {
		res.ConditionsEvaluated++
		ok, err := evaluate(cond, c)
		if err != nil {
			res.Err = &RuleError{Rule: r.name, Phase: PhaseCondition, Index: i, Err: err}
			return res
		}
		if !ok {
			return res
		}
	}

	res.Fired = true
	for i, a := range r.actions {
		if err := execute(a, c); err != nil {
			res.Err = &RuleError{Rule: r.name, Phase: PhaseAction, Index: i, Err: err}
			return res
		}
		res.ActionsCompleted++
	}
	return res
}

// predicate is satisfied by both Trigger and Condition.
type predicate interface {
	Evaluate(c Context) (bool, error)
}

func evaluate(p predicate, c Context) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ok, err = false, fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()
	return p.Evaluate(c)
}

func execute(a Action, c Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()
	return a.Execute(c)
}
