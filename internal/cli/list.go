package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/luxctl/internal/action"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var scopesOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all actions grouped by scope",
		Long: `Print every stored action, grouped by scope and ordered by level.

Each scope is introduced by an "[id:name]" header. Delayed actions are
annotated with "(after N sec)".

With --scopes, print one header per scope instead, including scopes that
hold no actions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := rootOpts.app
			if scopesOnly {
				return listScopes(cmd, app)
			}

			n, err := action.WriteListing(cmd.OutOrStdout(), app.Repo.All(cmd.Context()))
			if err != nil {
				return WrapExitError(ExitFailure, "listing actions", err)
			}
			app.Logger.Debug("actions listed", "count", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&scopesOnly, "scopes", false, "list scope headers only, including empty scopes")

	return cmd
}

func listScopes(cmd *cobra.Command, app *App) error {
	scopes, err := app.Repo.Scopes(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "listing scopes", err)
	}
	for _, s := range scopes {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}
