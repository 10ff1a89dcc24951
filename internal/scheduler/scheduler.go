package scheduler

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/smarthome-core/internal/automation"
)

const maxDescriptionLength = 200

// Logger defines the logging interface used by the Scheduler.
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

// task is a registered time-of-day action with its own firing state.
type task struct {
	id          string
	at          automation.TimeOfDay
	description string
	action      automation.Action

	// Occurrences before horizon or at or before through never fire.
	// horizon is the start of the local day the task was first considered.
	horizon   time.Time
	through   time.Time
	lastFired time.Time
	runs      int
}

// Task is a read-only view of a scheduled task.
type Task struct {
	ID          string               `json:"id"`
	At          automation.TimeOfDay `json:"at"`
	Description string               `json:"description"`
	LastFired   *time.Time           `json:"last_fired,omitempty"`
	NextRun     time.Time            `json:"next_run"`
	Runs        int                  `json:"runs"`
}

// TaskRun reports one task firing.
type TaskRun struct {
	TaskID      string
	Description string
	At          automation.TimeOfDay
	Occurrence  time.Time // the scheduled instant that fired
	FiredAt     time.Time // clock reading of the tick
	Duration    time.Duration
	Err         error
}

// Scheduler fires actions at fixed times of day.
//
// Each task fires at most once per local calendar day. On every Tick the
// task's most recent occurrence (today's time if already reached, otherwise
// yesterday's) fires if the task has not yet fired for it. A tick gap across
// midnight therefore still fires the pre-midnight occurrence, and a gap of
// several days fires once, not once per day.
//
// A task added after the first Tick only fires for occurrences later than
// that last Tick.
//
// Thread Safety: Add and Tasks may be called concurrently with Tick. Task
// actions run on the goroutine calling Tick.
type Scheduler struct {
	env    automation.Environment
	clock  Clock
	loc    *time.Location
	logger Logger

	mu          sync.Mutex
	tasks       []*task
	lastChecked time.Time
}

// New creates a scheduler that runs actions against env.
//
// Parameters:
//   - env: The capability surface passed to every action
//   - clock: Time source (nil uses SystemClock)
//   - logger: Logger instance (may be nil)
func New(env automation.Environment, clock Clock, logger Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Scheduler{env: env, clock: clock, loc: time.UTC, logger: logger}
}

// SetLocation sets the time zone that defines local days.
func (s *Scheduler) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loc = loc
}

// Add registers a task and returns nil, or ErrInvalidTask for a nil action,
// an out-of-range time or an empty description. Tasks sharing a time of day
// fire in the order they were added.
func (s *Scheduler) Add(at automation.TimeOfDay, description string, action automation.Action) error {
	_, err := s.AddTask(at, description, action)
	return err
}

// AddTask is Add, also returning the new task's ID.
func (s *Scheduler) AddTask(at automation.TimeOfDay, description string, action automation.Action) (string, error) {
	if action == nil {
		return "", fmt.Errorf("%w: nil action", ErrInvalidTask)
	}
	if at < 0 || int(at) >= 24*3600 {
		return "", fmt.Errorf("%w: time of day %d out of range", ErrInvalidTask, at)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("%w: description is required", ErrInvalidTask)
	}
	if len(description) > maxDescriptionLength {
		return "", fmt.Errorf("%w: description exceeds %d characters", ErrInvalidTask, maxDescriptionLength)
	}

	t := &task{id: uuid.NewString(), at: at, description: description, action: action}
	s.mu.Lock()
	if !s.lastChecked.IsZero() {
		last := s.lastChecked.In(s.loc)
		t.horizon = startOfDay(last)
		t.through = last
	}
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	s.logger.Info("task scheduled", "task", description, "at", at.String())
	return t.id, nil
}

// Remove unregisters a task by ID.
func (s *Scheduler) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrTaskNotFound, id)
}

// Tick fires every task that is due at the clock's current time and
// returns what ran. A failing or panicking task is logged and does not stop
// the others.
func (s *Scheduler) Tick() []TaskRun {
	s.mu.Lock()
	loc := s.loc
	now := s.clock.Now().In(loc)
	var due []*task
	var occurrences []time.Time
	for _, t := range s.tasks {
		if t.horizon.IsZero() {
			t.horizon = startOfDay(now)
		}
		occ := latestOccurrence(t.at, now)
		if occ.Before(t.horizon) || !occ.After(t.through) {
			continue
		}
		t.through = occ
		t.lastFired = occ
		t.runs++
		due = append(due, t)
		occurrences = append(occurrences, occ)
	}
	s.lastChecked = now
	s.mu.Unlock()

	if len(due) == 0 {
		return nil
	}

	c := automation.NewContext(s.env, now.Unix(), loc)
	runs := make([]TaskRun, 0, len(due))
	for i, t := range due {
		start := time.Now()
		err := runAction(t.action, c)
		tr := TaskRun{
			TaskID:      t.id,
			Description: t.description,
			At:          t.at,
			Occurrence:  occurrences[i],
			FiredAt:     now,
			Duration:    time.Since(start),
			Err:         err,
		}
		if err != nil {
			s.logger.Error("task failed", "task", t.description, "at", t.at.String(), "error", err)
		} else {
			s.logger.Info("task fired", "task", t.description, "at", t.at.String())
		}
		runs = append(runs, tr)
	}
	return runs
}

// Tasks returns a snapshot of the registered tasks in registration order.
func (s *Scheduler) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now().In(s.loc)
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		info := Task{
			ID:          t.id,
			At:          t.at,
			Description: t.description,
			NextRun:     nextRun(t, now),
			Runs:        t.runs,
		}
		if !t.lastFired.IsZero() {
			fired := t.lastFired
			info.LastFired = &fired
		}
		out = append(out, info)
	}
	return out
}

// latestOccurrence returns the most recent instant at or before now at
// which at occurs.
func latestOccurrence(at automation.TimeOfDay, now time.Time) time.Time {
	occ := at.On(now)
	if occ.After(now) {
		occ = at.On(now.AddDate(0, 0, -1))
	}
	return occ
}

// nextRun returns when the task will next fire if ticked continuously.
func nextRun(t *task, now time.Time) time.Time {
	occ := latestOccurrence(t.at, now)
	horizon := t.horizon
	if horizon.IsZero() {
		horizon = startOfDay(now)
	}
	if !occ.Before(horizon) && occ.After(t.through) {
		return now
	}
	next := t.at.On(now)
	if !next.After(now) {
		next = t.at.On(now.AddDate(0, 0, 1))
	}
	return next
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func runAction(a automation.Action, c automation.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", automation.ErrPanic, rec)
		}
	}()
	return a.Execute(c)
}
