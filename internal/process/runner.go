package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// ErrEmptyCommand is returned when a command string has no words.
var ErrEmptyCommand = errors.New("process: empty command")

// pipeGrace bounds how long Execute keeps reading output after the child
// exited or its process group was killed.
const pipeGrace = time.Second

// Config holds configuration for running action commands.
type Config struct {
	// Timeout bounds a single run. Zero means no bound beyond the caller's context.
	Timeout time.Duration

	// Env are additional environment variables (key=value format).
	// If nil, inherits from parent process.
	Env []string

	// WorkDir is the working directory for the process.
	// If empty, inherits from parent process.
	WorkDir string
}

// Logger defines the logging interface for the runner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Runner executes action command strings as child processes.
//
// A command string is split on whitespace; the first word is the program and
// the rest are its arguments. No shell is involved, so quoting and shell
// operators are not interpreted.
type Runner struct {
	config Config
	logger Logger
}

// NewRunner creates a Runner with the given configuration.
func NewRunner(cfg Config) *Runner {
	return &Runner{
		config: cfg,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(logger Logger) {
	r.logger = logger
}

// Split tokenises a command string into program and arguments.
func Split(command string) (string, []string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil, ErrEmptyCommand
	}
	return fields[0], fields[1:], nil
}

// Execute runs command and waits for it to exit.
//
// A non-zero exit status, a failure to start, or a timeout is returned as an
// error. The child runs in its own process group and the whole group is
// killed when ctx is cancelled or the timeout expires before the child exits.
//
// Completion is the exit of the direct child. Background processes it leaves
// behind keep running; if they hold its stdout or stderr open, output
// capture stops pipeGrace after the exit.
func (r *Runner) Execute(ctx context.Context, command string) error {
	binary, args, err := Split(command)
	if err != nil {
		return err
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec // Commands are operator-supplied actions

	// Create a new process group so we can signal all children on cancel
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Use negative PID to signal the process group (created via Setpgid)
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = pipeGrace

	if r.config.Env != nil {
		cmd.Env = append(os.Environ(), r.config.Env...)
	}
	if r.config.WorkDir != "" {
		cmd.Dir = r.config.WorkDir
	}

	// Non-file writers make exec copy the output itself, so WaitDelay
	// can cut the copy short once the child is gone.
	cmd.Stdout = &outputLogger{logger: r.logger, binary: binary, stream: "stdout"}
	cmd.Stderr = &outputLogger{logger: r.logger, binary: binary, stream: "stderr"}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", binary, err)
	}
	r.logger.Debug("process started", "binary", binary, "pid", cmd.Process.Pid)

	err = cmd.Wait()
	elapsed := time.Since(start)

	if errors.Is(err, exec.ErrWaitDelay) {
		r.logger.Debug("output left open by background process", "binary", binary)
		err = nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) && r.config.Timeout > 0 {
				return fmt.Errorf("%s: timed out after %s: %w", binary, r.config.Timeout, ctxErr)
			}
			return fmt.Errorf("%s: %w", binary, ctxErr)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}

	r.logger.Debug("process exited", "binary", binary, "elapsed", elapsed)
	return nil
}

// outputLogger writes each chunk of child output to the debug log.
type outputLogger struct {
	logger Logger
	binary string
	stream string
}

func (w *outputLogger) Write(p []byte) (int, error) {
	if out := strings.TrimRight(string(p), "\n"); out != "" {
		w.logger.Debug("process output",
			"binary", w.binary,
			"stream", w.stream,
			"output", out,
		)
	}
	return len(p), nil
}
