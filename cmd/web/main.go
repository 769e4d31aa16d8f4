package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/cost-monitor/pkg/runtime/app"
	"github.com/de-tools/cost-monitor/pkg/server"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/de-tools/cost-monitor/pkg/services/billing/aws"
	"github.com/de-tools/cost-monitor/pkg/services/billing/azure"
	"github.com/de-tools/cost-monitor/pkg/services/billing/databricks"
	"github.com/de-tools/cost-monitor/pkg/services/billing/snowflake"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	envFile string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the cost monitor API server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to the YAML config file")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to a .env file loaded before the config")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	registry := billing.NewRegistry(map[string]billing.ProviderFactory{
		"azure":      azure.ProviderFactory,
		"aws":        aws.ProviderFactory,
		"databricks": databricks.ProviderFactory,
		"snowflake":  snowflake.ProviderFactory,
	})

	a, err := app.New(ctx, registry, cfg, app.Options{Notify: app.NotifyNone})
	if err != nil {
		return fmt.Errorf("failed to initialize cost monitor: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to release resources")
		}
	}()

	logger.Info().
		Str("provider", cfg.Provider).
		Strs("available", registry.ListProviders()).
		Msg("billing provider configured")

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Dependencies: server.Dependencies{
			Monitor:  a.Monitor,
			Runs:     a.History,
			Provider: a.Provider.Name,
			Location: loc,
			Logger:   logger,
		},
	})

	return api.Start()
}
