package cli

import (
	"github.com/spf13/cobra"

	"github.com/nerrad567/luxctl/internal/action"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	Scope string
	Level int
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an action, or a whole scope",
		Long: `Delete the action at --level in --scope. Without --level the whole scope
and all of its actions are deleted; deleting the Default scope empties it.

Deleting something that does not exist is not an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := rootOpts.app
			ctx := cmd.Context()

			if cmd.Flags().Changed("level") {
				if err := app.Repo.Delete(ctx, opts.Scope, opts.Level); err != nil {
					return WrapExitError(ExitFailure, "deleting action", err)
				}
				app.Logger.Debug("action deleted", "scope", opts.Scope, "level", opts.Level)
				return nil
			}

			if err := app.Repo.DeleteScope(ctx, opts.Scope); err != nil {
				return WrapExitError(ExitFailure, "deleting scope", err)
			}
			app.Logger.Debug("scope deleted", "scope", opts.Scope)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Scope, "scope", "s", action.DefaultScopeName, "scope to delete from")
	cmd.Flags().IntVarP(&opts.Level, "level", "l", 0, "level of the action to delete (omit to delete the scope)")

	return cmd
}
