package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/luxctl/internal/action"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	Level   int
	Execute string
	Scope   string
	Delay   int
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an action for an illuminance level",
		Long: `Add an action that runs when the reading is at or above --level and no
other action of the same scope has a higher qualifying level.

The scope is created on first use. Adding a second action for the same
level and scope is reported and leaves the existing action in place.`,
		Example: `  luxctl add -l 50 -e "/usr/local/bin/lights off"
  luxctl add -l 5 -s porch -t 30 -e "/usr/local/bin/porch on"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Level, "level", "l", 0, "illuminance level in lux")
	cmd.Flags().StringVarP(&opts.Execute, "execute", "e", "", "command to execute")
	cmd.Flags().StringVarP(&opts.Scope, "scope", "s", action.DefaultScopeName, "scope of the action")
	cmd.Flags().IntVarP(&opts.Delay, "delay", "t", 0, "seconds to wait after the cycle starts")
	_ = cmd.MarkFlagRequired("level")   //nolint:errcheck // Flag is defined above
	_ = cmd.MarkFlagRequired("execute") //nolint:errcheck // Flag is defined above

	return cmd
}

func runAdd(cmd *cobra.Command, rootOpts *RootOptions, opts *AddOptions) error {
	app := rootOpts.app

	a := action.Action{
		Level:   opts.Level,
		Scope:   opts.Scope,
		Delay:   opts.Delay,
		Command: opts.Execute,
	}

	err := app.Repo.Add(cmd.Context(), a)
	switch {
	case err == nil:
		app.Logger.Debug("action added", "scope", a.Scope, "level", a.Level, "delay", a.Delay)
		return nil
	case errors.Is(err, action.ErrActionExists):
		fmt.Fprintf(cmd.ErrOrStderr(),
			"Action on level:%dlx for scope:%q already exists: Do you mean another scope?\n",
			a.Level, a.Scope)
		return nil
	case errors.Is(err, action.ErrInvalidAction), errors.Is(err, action.ErrInvalidScope):
		return WrapExitError(ExitUsage, "invalid action", err)
	default:
		return WrapExitError(ExitFailure, "adding action", err)
	}
}
