package cli

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/nerrad567/luxctl/internal/infrastructure/logging"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	Schedule string
	PIDFile  string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the actions on a schedule until interrupted",
		Long: `Repeat the run command on a cron schedule until SIGINT or SIGTERM.

The first pass runs immediately. A pass that is still running when the next
one is due is skipped. With MQTT enabled, a message on
luxctl/{site}/command/run triggers an extra pass.

With --pidfile, a second watcher using the same file exits with status 1.`,
		Example: `  luxctl watch
  luxctl watch --schedule "@every 1m"
  luxctl watch --schedule "*/5 6-22 * * *"
  luxctl watch --pidfile /var/run/luxctl.pid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), rootOpts.app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "cron expression or descriptor (default from configuration)")
	cmd.Flags().StringVar(&opts.PIDFile, "pidfile", "", "lock file refusing a second watcher (default from configuration)")

	return cmd
}

func runWatch(ctx context.Context, app *App, opts *WatchOptions) error {
	schedule := opts.Schedule
	if schedule == "" {
		schedule = app.Config.Watch.Schedule
	}
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return WrapExitError(ExitUsage, "invalid watch schedule", err)
	}

	pidPath := opts.PIDFile
	if pidPath == "" {
		pidPath = app.Config.Watch.PIDFile
	}
	if pidPath != "" {
		pid, err := openPIDFile(pidPath)
		switch {
		case errors.Is(err, errAlreadyRunning):
			return WrapExitError(ExitFailure, pidPath, err)
		case err != nil:
			// A pidfile that cannot be created is not fatal; the watcher runs unguarded.
			app.Logger.Warn("running without pidfile", "path", pidPath, "error", err)
		default:
			defer func() {
				if err := pid.remove(); err != nil {
					app.Logger.Warn("removing pidfile", "path", pidPath, "error", err)
				}
			}()
		}
	}

	app.connectObservers(ctx)
	w := &watcher{app: app}

	// A missing driver fails fast instead of logging on every tick.
	if _, _, err := runCycle(ctx, app); err != nil {
		if GetExitCode(err) == ExitDriverMissing {
			return err
		}
		app.Logger.Error("pass failed", "trigger", "start", "error", err)
	}

	cl := cronLogger{app.Logger.With("component", "cron")}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(sched, cron.FuncJob(func() { w.tick(ctx, "schedule") }))

	if app.MQTT != nil {
		err := app.MQTT.OnRunCommand(func() { go w.tick(ctx, "mqtt") })
		if err != nil {
			app.Logger.Warn("run command topic unavailable", "topic", app.MQTT.Topics().CommandRun(), "error", err)
		}
	}

	c.Start()
	app.Logger.Info("watching illuminance", "schedule", schedule, "next", sched.Next(time.Now()))

	<-ctx.Done()

	<-c.Stop().Done()
	w.mu.Lock() // wait for an MQTT-triggered pass
	w.mu.Unlock()
	app.Logger.Info("watch stopped")
	return nil
}

// watcher serialises passes triggered by the schedule and by MQTT.
type watcher struct {
	app *App
	mu  sync.Mutex
}

// tick runs one pass unless another is in progress.
func (w *watcher) tick(ctx context.Context, trigger string) {
	if !w.mu.TryLock() {
		w.app.Logger.Debug("pass still running, skipping", "trigger", trigger)
		return
	}
	defer w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	level, cycle, err := runCycle(ctx, w.app)
	if err != nil {
		w.app.Logger.Error("pass failed", "trigger", trigger, "error", err)
		return
	}
	w.app.Logger.Info("pass complete",
		"trigger", trigger,
		"lux", level,
		"cycle_id", cycle.ID,
		"fired", len(cycle.Executions),
	)
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	l *logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
