package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nerrad567/luxctl/internal/action"
)

// RenameOptions holds flags for the rename command.
type RenameOptions struct {
	Scope string
	To    string
}

// NewRenameCommand creates the rename command.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenameOptions{}

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a scope",
		Long:  `Rename a scope. Its actions follow it. The Default scope cannot be renamed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := rootOpts.app

			err := app.Repo.RenameScope(cmd.Context(), opts.Scope, opts.To)
			switch {
			case err == nil:
				app.Logger.Debug("scope renamed", "from", opts.Scope, "to", opts.To)
				return nil
			case errors.Is(err, action.ErrInvalidScope):
				return WrapExitError(ExitUsage, "invalid scope name", err)
			default:
				return WrapExitError(ExitFailure, "renaming scope", err)
			}
		},
	}

	cmd.Flags().StringVarP(&opts.Scope, "scope", "s", "", "scope to rename")
	cmd.Flags().StringVar(&opts.To, "to", "", "new scope name")
	_ = cmd.MarkFlagRequired("scope") //nolint:errcheck // Flag is defined above
	_ = cmd.MarkFlagRequired("to")    //nolint:errcheck // Flag is defined above

	return cmd
}
