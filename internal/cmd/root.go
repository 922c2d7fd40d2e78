package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds the global flags for the root command.
type RootOptions struct {
	Config  string
	Verbose bool
}

// NewRootCmd creates the root command with dependency injection.
func NewRootCmd(
	logger *slog.Logger,
	levelVar *slog.LevelVar,
	stdout, stderr io.Writer,
) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "namegate",
		Short: "namegate - domain availability resolution service",
		Long: `Namegate resolves domain registration availability by routing each
lookup to the correct registry protocol (RDAP over HTTPS or legacy WHOIS
over TCP) and serves the results over a guarded HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.Verbose {
				levelVar.Set(slog.LevelDebug)
				logger.Debug("verbose logging enabled")
			}
		},
	}

	cmd.PersistentFlags().StringVar(
		&opts.Config,
		"config",
		"",
		"config file (default: $HOME/.config/namegate/config.yaml)",
	)

	cmd.PersistentFlags().BoolVarP(
		&opts.Verbose,
		"verbose",
		"v",
		false,
		"enable verbose logging (debug level)",
	)

	cmd.AddCommand(
		newServeCmd(opts, logger),
		newCheckCmd(opts, logger, stdout),
		newVersionCmd(stdout),
	)

	return cmd
}
