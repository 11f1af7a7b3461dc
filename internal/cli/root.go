package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerrad567/luxctl/internal/infrastructure/config"
	"github.com/nerrad567/luxctl/internal/infrastructure/logging"
)

// RootOptions holds global flags for all commands and the App they share.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	Verbose    bool

	version string
	app     *App
}

// NewRootCommand creates the root command for the luxctl CLI.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(&RootOptions{version: version})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "luxctl",
		Short: "Illuminance level actions for the BH1750 sensor",
		Long: `luxctl runs commands when the ambient light level crosses stored thresholds.

Actions are grouped in scopes. For the current sensor reading, every scope
runs its action with the highest level not above the reading.`,
		Version:       opts.version,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Errors are printed once by Execute
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return opts.setup(cmd)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath, "path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to the action store (overrides configuration)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewRenameCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// setup loads configuration and builds the App.
// An explicit --config must exist; the default location is optional.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(o.ConfigPath)
	} else {
		cfg, err = config.LoadOrDefault(o.ConfigPath)
	}
	if err != nil {
		return WrapExitError(ExitUsage, "invalid configuration", err)
	}

	if o.DBPath != "" {
		cfg.Database.Path = o.DBPath
	}
	if o.Verbose {
		cfg.Logging.Level = "debug"
	}

	logOut := cmd.ErrOrStderr()
	if strings.EqualFold(cfg.Logging.Output, "stdout") {
		logOut = cmd.OutOrStdout()
	}
	logger := logging.NewWithWriter(cfg.Logging, o.version, logOut).With("site", cfg.Site.ID)

	app, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	o.app = app
	return nil
}

// Execute runs the CLI with args and returns the process exit code.
//
// Errors are written to stderr once. Errors that are not an *ExitError come
// from cobra's flag and argument parsing and map to ExitUsage.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{version: version}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)

	if opts.app != nil {
		if cerr := opts.app.Close(); cerr != nil {
			opts.app.Logger.Warn("closing resources failed", "error", cerr)
		}
	}

	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		err = WrapExitError(ExitUsage, "invalid usage", err)
		fmt.Fprintf(stderr, "luxctl: %v\nRun 'luxctl --help' for usage.\n", err)
		return ExitUsage
	}
	fmt.Fprintf(stderr, "luxctl: %v\n", err)
	return exitErr.Code
}
