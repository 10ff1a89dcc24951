// Package controller runs the home.
//
// A Controller owns the location.Home and everything that mutates it. Its Run
// loop is the only goroutine that touches devices:
//
//	         ┌───────────── Run(ctx) ─────────────┐
//	engine ticker ──► Engine.Tick ──► record/publish
//	sched ticker  ──► Scheduler.Tick ─► record/publish
//	Do(fn)        ──► fn(ctx)        (API, MQTT commands)
//	         └────────────────────────────────────┘
//
// Fired rules, task firings and scene activations are written to the
// automation.Repository and published to every EventSink (the WebSocket hub
// and the MQTT publisher). Each engine tick also samples the home's power
// draw and integrates it into kWh for the Metrics recorder.
package controller
