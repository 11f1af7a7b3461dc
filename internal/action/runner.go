package action

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Executor runs the command string of a selected action.
type Executor interface {
	Execute(ctx context.Context, command string) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, command string) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, command string) error { return f(ctx, command) }

// Observer is told about every completed cycle, including cycles that
// selected nothing. Observers must not block for long.
type Observer interface {
	ObserveCycle(ctx context.Context, cycle *Cycle)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, cycle *Cycle)

// ObserveCycle calls f.
func (f ObserverFunc) ObserveCycle(ctx context.Context, cycle *Cycle) { f(ctx, cycle) }

// Logger defines the logging interface for the runner.
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

// Runner selects the actions matching a reading and hands them to an Executor.
//
// Entries run one after another in delay order; an entry with a delay of N
// seconds starts no earlier than N seconds after the cycle began. Executor
// errors are logged and recorded on the cycle but never stop the cycle.
type Runner struct {
	repo      Repository
	executor  Executor
	logger    Logger
	observers []Observer

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a Runner. A nil logger discards log output.
func NewRunner(repo Repository, executor Executor, logger Logger) *Runner {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Runner{
		repo:     repo,
		executor: executor,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// AddObserver registers an observer for completed cycles.
func (r *Runner) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// Run performs one select-and-run pass for the observed level.
//
// The returned error is non-nil only when selection fails or ctx is
// cancelled while waiting for a delayed entry; in the latter case the
// cycle holds the executions that did happen.
func (r *Runner) Run(ctx context.Context, level int) (*Cycle, error) {
	cycle := &Cycle{
		ID:        GenerateID(),
		Level:     level,
		StartedAt: r.now(),
	}
	log := []any{"cycle_id", cycle.ID, "level", level}

	entries, err := r.repo.Select(ctx, level)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("actions selected", append(log, "count", len(entries))...)

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Delay - b.Delay
	})

	var runErr error
	for _, e := range entries {
		if wait := cycle.StartedAt.Add(e.DelayDuration()).Sub(r.now()); wait > 0 {
			r.logger.Debug("waiting for delayed action",
				append(log, "scope", e.Scope, "action_level", e.Level, "wait", wait)...)
			if err := r.sleep(ctx, wait); err != nil {
				runErr = fmt.Errorf("waiting for action %d in scope %q: %w", e.Level, e.Scope, err)
				break
			}
		}

		exec := Execution{Entry: e, StartedAt: r.now()}
		exec.Err = r.executor.Execute(ctx, e.Command)
		if exec.Err != nil {
			r.logger.Warn("action command failed",
				append(log, "scope", e.Scope, "action_level", e.Level, "command", e.Command, "error", exec.Err)...)
		} else {
			r.logger.Info("action fired",
				append(log, "scope", e.Scope, "action_level", e.Level, "command", e.Command)...)
		}
		cycle.Executions = append(cycle.Executions, exec)
	}

	for _, o := range r.observers {
		o.ObserveCycle(ctx, cycle)
	}

	return cycle, runErr
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
