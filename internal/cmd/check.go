package cmd

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/namegate/namegate/internal/check"
	"github.com/namegate/namegate/internal/config"
	"github.com/namegate/namegate/internal/httpclient"
	"github.com/namegate/namegate/internal/input"
	"github.com/namegate/namegate/internal/ratelimit"
	"github.com/namegate/namegate/internal/rdap"
	"github.com/namegate/namegate/internal/registry"
	"github.com/namegate/namegate/internal/whois"
)

func newCheckCmd(opts *RootOptions, logger *slog.Logger, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "check [domain]...",
		Short: "Resolve availability for up to 20 domains and print the JSON result",
		Long: `Check resolves registration availability for the given domains (or one
domain per line on stdin when no arguments are given) and prints the batch
result as JSON. The same validation and batch limit as the HTTP API apply.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.Config, os.UserConfigDir)
			if err != nil {
				return err
			}

			domains := args
			if len(domains) == 0 {
				domains, err = input.Read(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			client, err := httpclient.New(cfg.HTTP.Proxy, cfg.HTTP.UserAgent, logger, opts.Verbose)
			if err != nil {
				return err
			}
			httpclient.Pace(client, ratelimit.New(rdap.DefaultRPS, rdap.DefaultBurst))

			checker := check.NewChecker(
				registry.NewDefaultTable(),
				rdap.NewResolver(client, logger, rdap.Options{
					Timeout:    cfg.Resolver.RDAPTimeout,
					RetryDelay: cfg.Resolver.RDAPRetryDelay,
				}),
				whois.NewResolver(logger, whois.Options{Timeout: cfg.Resolver.WhoisTimeout}),
				logger,
			)

			br, err := checker.CheckBatch(cmd.Context(), domains)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(br)
		},
	}
}
