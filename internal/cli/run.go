package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/luxctl/internal/action"
	"github.com/nerrad567/luxctl/internal/sensor"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Read the sensor and run the matching actions",
		Long: `Read the current illuminance and, for every scope, run the action with the
highest level not above the reading. The reading is printed to stdout.

Command failures are logged and do not change the exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := rootOpts.app
			app.connectObservers(cmd.Context())

			level, cycle, err := runCycle(cmd.Context(), app)
			if level >= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), level)
			}
			if err != nil {
				return err
			}

			app.Logger.Debug("cycle complete", "cycle_id", cycle.ID, "fired", len(cycle.Executions))
			return nil
		},
	}
}

// runCycle performs one read-select-execute pass. The returned level is -1
// when the sensor could not be read.
func runCycle(ctx context.Context, app *App) (int, *action.Cycle, error) {
	level, err := app.Sensor.Level(ctx)
	if err != nil {
		if sensor.IsDriverMissing(err) {
			return -1, nil, WrapExitError(ExitDriverMissing, "no bh1750 driver loaded", err)
		}
		return -1, nil, WrapExitError(ExitFailure, "reading illuminance", err)
	}
	app.Logger.Debug("illuminance read", "lux", level)

	cycle, err := app.Runner.Run(ctx, level)
	if err != nil {
		return level, cycle, WrapExitError(ExitFailure, "running actions", err)
	}
	return level, cycle, nil
}
