// Package automation provides the rule engine for the smart home core.
//
// A Rule joins one Trigger, an AND-chain of Conditions and an ordered list of
// Actions. On every tick the Engine builds a fresh Context (environment
// handle plus timestamp) and evaluates each rule in registration order:
//
//	┌──────────────┐  true   ┌────────────────────┐  all true  ┌───────────────┐
//	│   Trigger    │────────▶│ Conditions C1..Cn  │───────────▶│ Actions A1..An │
//	└──────────────┘         │ (stop at first no) │            │ (stop at fault)│
//	                         └────────────────────┘            └───────────────┘
//
// Faults never escape a tick. A trigger or condition that errors or panics
// counts as false and is logged as an evaluation fault; an action that errors
// or panics skips the rest of that rule's actions and is logged as an action
// fault. Both are reported as *RuleError carrying the rule name and phase.
//
// # Key Types
//
//   - Context: per-tick snapshot of environment and time
//   - Environment, Room, Device: the capability surface rules act on
//   - Rule, Engine, TickReport: evaluation and its diagnostics
//   - Scene, SceneSet: named action lists applied on demand
//   - Execution, Repository: persisted history of rule, task and scene runs
//
// Built-in triggers, conditions and actions cover time windows, cron
// expressions, darkness, motion, security state, lights, locks, cameras,
// thermostats and blinds. ExprCondition evaluates expr-lang expressions, and
// BuildRule turns declarative configuration into rules.
//
// # Usage
//
//	rule := automation.NewRule("Evening Lights", automation.TimeAfter{At: automation.At(18, 0)}).
//	    AddCondition(automation.RoomDark{Room: "Living Room"}).
//	    AddAction(automation.TurnOnRoomLights{Room: "Living Room", Brightness: 60})
//
//	engine := automation.NewEngine(env, log)
//	if err := engine.AddRule(rule); err != nil {
//	    return err
//	}
//	report := engine.Tick(time.Now().Unix())
package automation
