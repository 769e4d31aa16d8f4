package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/cost-monitor/pkg/runtime/app"
	"github.com/de-tools/cost-monitor/pkg/runtime/terminal/commands"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	registry   billing.Registry
	output     io.Writer
	logs       io.Writer
	rootCmd    *cobra.Command
	configPath string
	envFile    string
	logLevel   string
}

// Options contain configuration for the CLI
type Options struct {
	Registry billing.Registry
	Output   io.Writer
	// Logs receives structured logs, stderr by default.
	Logs io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}

	cli := &CLI{
		registry: opts.Registry,
		output:   opts.Output,
		logs:     opts.Logs,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.ExecuteContext(context.Background())
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "cost-monitor",
		Short:             "Cloud cost alerts and owner reports",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setupLogger,
	}
	cmd.SetOut(cli.output)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&cli.envFile, "env-file", ".env", "Path to a .env file loaded before the config")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(commands.NewCheckCmd(cli.loadApp))
	cmd.AddCommand(commands.NewReportCmd(cli.loadApp))
	cmd.AddCommand(commands.NewTopCmd(cli.loadApp))
	cmd.AddCommand(commands.NewOwnersCmd(cli.loadApp))
	cmd.AddCommand(commands.NewRunCmd(cli.loadApp))
	cmd.AddCommand(commands.NewHistoryCmd(cli.loadApp))

	return cmd
}

func (cli *CLI) setupLogger(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(cli.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cli.logLevel, err)
	}

	logger := zerolog.New(cli.logs).Level(level).With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

func (cli *CLI) loadApp(cmd *cobra.Command, mode app.NotifyMode) (*app.App, error) {
	if err := config.LoadDotEnv(cli.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return app.New(cmd.Context(), cli.registry, cfg, app.Options{
		Notify: mode,
		Output: cmd.OutOrStdout(),
	})
}
