package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/smarthome-core/internal/automation"
	"github.com/nerrad567/smarthome-core/internal/device"
	"github.com/nerrad567/smarthome-core/internal/location"
	"github.com/nerrad567/smarthome-core/internal/scheduler"
)

// Logger defines the logging interface used by the controller.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Default tick intervals.
const (
	DefaultEngineInterval    = 5 * time.Second
	DefaultSchedulerInterval = 5 * time.Second
)

// Deps holds everything the controller drives. Home, Engine and Scheduler
// are required; the rest may be nil.
type Deps struct {
	Home      *location.Home
	Engine    *automation.Engine
	Scheduler *scheduler.Scheduler
	Scenes    *automation.SceneSet
	Repo      automation.Repository
	Metrics   Metrics
	Sinks     []EventSink
	Logger    Logger

	EngineInterval    time.Duration
	SchedulerInterval time.Duration
	Now               func() time.Time
}

// Controller owns the home. Engine ticks, scheduler ticks and external
// commands all run on the single goroutine inside Run, so the environment is
// never mutated concurrently.
type Controller struct {
	home      *location.Home
	env       automation.Environment
	engine    *automation.Engine
	scheduler *scheduler.Scheduler
	scenes    *automation.SceneSet
	repo      automation.Repository
	metrics   Metrics
	logger    Logger
	now       func() time.Time

	engineInterval    time.Duration
	schedulerInterval time.Duration

	sinksMu sync.RWMutex
	sinks   []EventSink

	cmds    chan command
	stopped chan struct{}
	runOnce sync.Once

	meter energyMeter
}

type command struct {
	fn   func(ctx context.Context) error
	done chan error
}

// New creates a controller. It does nothing until Run is called.
func New(deps Deps) (*Controller, error) {
	if deps.Home == nil || deps.Engine == nil || deps.Scheduler == nil {
		return nil, fmt.Errorf("controller: home, engine and scheduler are required")
	}
	c := &Controller{
		home:              deps.Home,
		env:               location.Environment(deps.Home),
		engine:            deps.Engine,
		scheduler:         deps.Scheduler,
		scenes:            deps.Scenes,
		repo:              deps.Repo,
		metrics:           deps.Metrics,
		logger:            deps.Logger,
		now:               deps.Now,
		engineInterval:    deps.EngineInterval,
		schedulerInterval: deps.SchedulerInterval,
		sinks:             append([]EventSink(nil), deps.Sinks...),
		cmds:              make(chan command),
		stopped:           make(chan struct{}),
	}
	if c.logger == nil {
		c.logger = noopLogger{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.engineInterval <= 0 {
		c.engineInterval = DefaultEngineInterval
	}
	if c.schedulerInterval <= 0 {
		c.schedulerInterval = DefaultSchedulerInterval
	}
	if c.scenes == nil {
		c.scenes, _ = automation.NewSceneSet()
	}
	return c, nil
}

// AddSink registers an event sink. Safe to call while running.
func (c *Controller) AddSink(s EventSink) {
	c.sinksMu.Lock()
	c.sinks = append(c.sinks, s)
	c.sinksMu.Unlock()
}

// Home returns the controlled home. Callers outside Do must only use its
// read-only, lock-guarded accessors.
func (c *Controller) Home() *location.Home { return c.home }

// Engine returns the rule engine.
func (c *Controller) Engine() *automation.Engine { return c.engine }

// Scheduler returns the task scheduler.
func (c *Controller) Scheduler() *scheduler.Scheduler { return c.scheduler }

// Scenes returns the scene set.
func (c *Controller) Scenes() *automation.SceneSet { return c.scenes }

// ─── Main Loop ──────────────────────────────────────────────────────────────

// Run drives the engine and scheduler until ctx is cancelled. It blocks.
// The engine ticks once immediately so startup state is evaluated without
// waiting a full interval.
func (c *Controller) Run(ctx context.Context) error {
	first := false
	c.runOnce.Do(func() { first = true })
	if !first {
		return ErrAlreadyRunning
	}
	defer close(c.stopped)

	engineTicker := time.NewTicker(c.engineInterval)
	defer engineTicker.Stop()
	schedTicker := time.NewTicker(c.schedulerInterval)
	defer schedTicker.Stop()

	c.logger.Info("controller started",
		"engine_interval", c.engineInterval,
		"scheduler_interval", c.schedulerInterval,
		"rules", len(c.engine.Rules()),
		"tasks", len(c.scheduler.Tasks()),
	)

	c.tickScheduler(ctx)
	c.tickEngine(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("controller stopped")
			return nil
		case <-engineTicker.C:
			c.tickEngine(ctx)
		case <-schedTicker.C:
			c.tickScheduler(ctx)
		case cmd := <-c.cmds:
			cmd.done <- c.runCommand(ctx, cmd.fn)
		}
	}
}

// Do runs fn on the controller goroutine and waits for it to finish. Use it
// for anything that mutates the home. It returns ErrStopped once Run has
// returned, or ctx.Err() if ctx ends first. fn must not call Do.
func (c *Controller) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case c.cmds <- cmd:
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) runCommand(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("command panicked", "panic", r)
			err = fmt.Errorf("%w: %v", automation.ErrPanic, r)
		}
	}()
	return fn(ctx)
}

func (c *Controller) tickEngine(ctx context.Context) {
	now := c.now()
	report := c.engine.Tick(now.Unix())

	for _, res := range report.Results {
		if !res.Fired {
			continue
		}
		exec := automation.ExecutionFromResult(res, now)
		c.record(ctx, exec)
		c.publish(EventRuleExecuted, exec)
	}

	watts := c.home.TotalPowerWatts()
	sample := EnergySample{
		Timestamp:  now,
		PowerWatts: watts,
		EnergyKWh:  c.meter.sample(now, watts),
		HourlyCost: c.home.EstimatedHourlyCost(),
	}
	if c.metrics != nil {
		c.metrics.RecordEngineTick(report)
		c.metrics.RecordEnergy(sample)
	}

	c.logger.Debug("engine tick",
		"evaluated", report.RulesEvaluated,
		"fired", report.RulesFired,
		"faults", report.EvaluationFaults+report.ActionFaults,
		"duration", report.Duration,
	)
}

func (c *Controller) tickScheduler(ctx context.Context) {
	runs := c.scheduler.Tick()
	for _, run := range runs {
		exec := executionFromRun(run)
		c.record(ctx, exec)
		c.publish(EventTaskExecuted, exec)
	}
	if len(runs) > 0 && c.metrics != nil {
		c.metrics.RecordTaskRuns(runs)
	}
}

// executionFromRun converts a task firing into an execution record.
func executionFromRun(run scheduler.TaskRun) *automation.Execution {
	exec := &automation.Execution{
		ID:               automation.GenerateID(),
		Source:           automation.SourceTask,
		Name:             run.Description,
		TriggeredAt:      run.FiredAt.UTC(),
		Status:           automation.StatusCompleted,
		ActionsTotal:     1,
		ActionsCompleted: 1,
		DurationMS:       int(run.Duration.Milliseconds()),
	}
	if run.Err != nil {
		exec.Status = automation.StatusFailed
		exec.ActionsCompleted = 0
		msg := run.Err.Error()
		at := "action[0]"
		exec.Error = &msg
		exec.FailedAt = &at
	}
	return exec
}

func (c *Controller) record(ctx context.Context, exec *automation.Execution) {
	if c.repo == nil {
		return
	}
	if err := c.repo.CreateExecution(ctx, exec); err != nil {
		c.logger.Warn("failed to record execution", "source", exec.Source, "name", exec.Name, "error", err)
	}
}

func (c *Controller) publish(eventType string, payload any) {
	e := Event{Type: eventType, Timestamp: c.now().UTC(), Payload: payload}
	c.sinksMu.RLock()
	sinks := c.sinks
	c.sinksMu.RUnlock()
	for _, s := range sinks {
		s.Publish(e)
	}
}

// ─── Commands ───────────────────────────────────────────────────────────────

// RuleInfo is the API view of a registered rule.
type RuleInfo struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

func ruleInfo(r *automation.Rule) RuleInfo {
	return RuleInfo{Name: r.Name(), Enabled: r.Enabled(), Description: r.Describe()}
}

// Rules lists registered rules in evaluation order.
func (c *Controller) Rules(ctx context.Context) ([]RuleInfo, error) {
	var out []RuleInfo
	err := c.Do(ctx, func(context.Context) error {
		rules := c.engine.Rules()
		out = make([]RuleInfo, 0, len(rules))
		for _, r := range rules {
			out = append(out, ruleInfo(r))
		}
		return nil
	})
	return out, err
}

// Rule returns one rule by name.
func (c *Controller) Rule(ctx context.Context, name string) (RuleInfo, error) {
	var out RuleInfo
	err := c.Do(ctx, func(context.Context) error {
		r, err := c.engine.Rule(name)
		if err != nil {
			return err
		}
		out = ruleInfo(r)
		return nil
	})
	return out, err
}

// SetRuleEnabled enables or disables a rule. The change applies from the
// next engine tick.
func (c *Controller) SetRuleEnabled(ctx context.Context, name string, enabled bool) (RuleInfo, error) {
	var out RuleInfo
	err := c.Do(ctx, func(context.Context) error {
		r, err := c.engine.Rule(name)
		if err != nil {
			return err
		}
		r.SetEnabled(enabled)
		out = ruleInfo(r)
		return nil
	})
	if err == nil {
		c.logger.Info("rule toggled", "rule", out.Name, "enabled", enabled)
	}
	return out, err
}

// Executions returns recorded history. An empty name lists every source.
func (c *Controller) Executions(ctx context.Context, source automation.ExecutionSource, name string, limit int) ([]automation.Execution, error) {
	if c.repo == nil {
		return []automation.Execution{}, nil
	}
	if name == "" {
		return c.repo.ListRecent(ctx, limit)
	}
	return c.repo.ListExecutions(ctx, source, name, limit)
}

// Summary returns a snapshot of the home.
func (c *Controller) Summary(ctx context.Context) (location.Summary, error) {
	var out location.Summary
	err := c.Do(ctx, func(context.Context) error {
		out = c.home.Summary()
		return nil
	})
	return out, err
}

// DeviceState returns one device's state.
func (c *Controller) DeviceState(ctx context.Context, name string) (device.State, error) {
	var out device.State
	err := c.Do(ctx, func(context.Context) error {
		d, err := c.home.Device(name)
		if err != nil {
			return err
		}
		out = d.Snapshot()
		return nil
	})
	return out, err
}

// Devices returns every device's state in registration order.
func (c *Controller) Devices(ctx context.Context) ([]device.State, error) {
	var out []device.State
	err := c.Do(ctx, func(context.Context) error {
		devices := c.home.Devices()
		out = make([]device.State, 0, len(devices))
		for _, d := range devices {
			out = append(out, d.Snapshot())
		}
		return nil
	})
	return out, err
}

// Command applies cmd to the named device and returns its new state.
func (c *Controller) Command(ctx context.Context, name string, cmd device.Command) (device.State, error) {
	var out device.State
	err := c.Do(ctx, func(context.Context) error {
		d, err := c.home.Device(name)
		if err != nil {
			return err
		}
		if err := cmd.Apply(d); err != nil {
			return err
		}
		out = d.Snapshot()
		c.publish(EventDeviceState, out)
		return nil
	})
	if err == nil {
		c.logger.Info("device command applied", "device", name, "command", cmd.Command)
	}
	return out, err
}

// SetSecurity arms or disarms the home. Arming reports devices it could not
// secure but still leaves the home armed.
func (c *Controller) SetSecurity(ctx context.Context, armed bool) error {
	return c.Do(ctx, func(context.Context) error {
		var err error
		if armed {
			err = c.home.ArmSecurity()
		} else {
			err = c.home.DisarmSecurity()
		}
		c.publish(EventSecurity, SecurityPayload{Armed: c.home.IsSecurityArmed()})
		if err != nil {
			c.logger.Warn("security change incomplete", "armed", armed, "error", err)
		} else {
			c.logger.Info("security changed", "armed", armed)
		}
		return err
	})
}

// ActivateScene applies the named scene and records the execution.
func (c *Controller) ActivateScene(ctx context.Context, name string) (*automation.Execution, error) {
	scene, err := c.scenes.Get(name)
	if err != nil {
		return nil, err
	}
	var exec *automation.Execution
	err = c.Do(ctx, func(ctx context.Context) error {
		now := c.now()
		res := scene.Apply(automation.NewContext(c.env, now.Unix(), c.engine.Location()))
		exec = automation.ExecutionFromResult(res, now)
		exec.Source = automation.SourceScene
		c.record(ctx, exec)
		c.publish(EventSceneActivated, exec)
		if res.Err != nil {
			c.logger.Error("scene failed", "scene", scene.Name, "error", res.Err)
			return res.Err
		}
		c.logger.Info("scene activated", "scene", scene.Name, "actions", res.ActionsCompleted)
		return nil
	})
	return exec, err
}

// Energy returns the latest integrated energy sample.
func (c *Controller) Energy(ctx context.Context) (EnergySample, error) {
	var out EnergySample
	err := c.Do(ctx, func(context.Context) error {
		out = EnergySample{
			Timestamp:  c.meter.last,
			PowerWatts: c.home.TotalPowerWatts(),
			EnergyKWh:  c.meter.kwh,
			HourlyCost: c.home.EstimatedHourlyCost(),
		}
		return nil
	})
	return out, err
}
