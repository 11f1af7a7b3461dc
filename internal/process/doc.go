// Package process runs action commands as child processes.
//
// Each command runs in its own process group with an optional timeout that
// applies until the command itself exits. Processes it starts in the
// background are left running. Its stdout and stderr are forwarded to the
// debug log.
//
// Example usage:
//
//	r := process.NewRunner(process.Config{Timeout: time.Minute})
//	r.SetLogger(logger)
//
//	if err := r.Execute(ctx, "/usr/local/bin/lights on"); err != nil {
//	    logger.Warn("action failed", "error", err)
//	}
package process
