// Package scheduler runs actions at fixed local times of day.
//
// A Scheduler owns a list of tasks, each a time of day, a description and an
// automation.Action. Tick reads the injected Clock and fires every task whose
// latest occurrence it has not fired yet, so each task fires once per local
// calendar day regardless of tick cadence:
//
//	sched := scheduler.New(env, scheduler.SystemClock{}, log)
//	sched.SetLocation(site)
//	_ = sched.Add(automation.At(6, 0), "Heat", automation.SetTemperature{Celsius: 21, TurnOn: true})
//	runs := sched.Tick()
//
// Occurrences from before the day a task was first ticked are ignored. A task
// whose time has already passed on that first day fires on the first tick.
package scheduler
