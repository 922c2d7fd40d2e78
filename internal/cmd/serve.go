package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/namegate/namegate/internal/check"
	"github.com/namegate/namegate/internal/config"
	"github.com/namegate/namegate/internal/counter"
	"github.com/namegate/namegate/internal/guard"
	"github.com/namegate/namegate/internal/httpclient"
	"github.com/namegate/namegate/internal/premium"
	"github.com/namegate/namegate/internal/ratelimit"
	"github.com/namegate/namegate/internal/rdap"
	"github.com/namegate/namegate/internal/registry"
	"github.com/namegate/namegate/internal/server"
	"github.com/namegate/namegate/internal/whois"
)

func newServeCmd(opts *RootOptions, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.Config, os.UserConfigDir)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg, opts.Verbose, logger)
		},
	}
}

func runServe(cmd *cobra.Command, cfg *config.Config, debug bool, logger *slog.Logger) error {
	// Counter store: shared Redis when configured, otherwise in-process.
	// The guards fail open either way; the in-process store just means
	// ceilings only see this instance's traffic.
	var store counter.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = counter.NewRedis(rdb, counter.WithPrefix(cfg.Redis.KeyPrefix))
		logger.Info("using redis counter store", "addr", cfg.Redis.Addr)
	} else {
		store = counter.NewMemory()
		logger.Warn("no redis configured, guard counters are instance-local")
	}

	registryClient, err := httpclient.New(cfg.HTTP.Proxy, cfg.HTTP.UserAgent, logger, debug)
	if err != nil {
		return fmt.Errorf("building registry http client: %w", err)
	}
	httpclient.Pace(registryClient, ratelimit.New(rdap.DefaultRPS, rdap.DefaultBurst))

	upstreamClient, err := httpclient.New(cfg.HTTP.Proxy, cfg.HTTP.UserAgent, logger, debug)
	if err != nil {
		return fmt.Errorf("building upstream http client: %w", err)
	}
	httpclient.Pace(upstreamClient, ratelimit.New(premium.DefaultRPS, premium.DefaultBurst))

	alerter := guard.NewAlerter(upstreamClient, cfg.Alert.WebhookURL, logger)
	guards := guard.NewChain(store, guard.Config{
		BurstPerMinute: cfg.Limits.BurstPerMinute,
		MonthlyQuota:   cfg.Limits.MonthlyQuota,
		MonthlyCeiling: cfg.Limits.MonthlyCeiling,
	}, alerter, logger)

	checker := check.NewChecker(
		registry.NewDefaultTable(),
		rdap.NewResolver(registryClient, logger, rdap.Options{
			Timeout:    cfg.Resolver.RDAPTimeout,
			RetryDelay: cfg.Resolver.RDAPRetryDelay,
		}),
		whois.NewResolver(logger, whois.Options{Timeout: cfg.Resolver.WhoisTimeout}),
		logger,
	)

	upstream := premium.NewClient(upstreamClient, cfg.Premium.BaseURL, cfg.Premium.APIKey, logger)

	srv := server.New(checker, guards, upstream, cfg.Server.TrustForwardedFor, logger)
	return srv.Start(cmd.Context(), cfg.Server.Addr)
}
