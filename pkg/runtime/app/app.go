package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/de-tools/cost-monitor/pkg/runtime/terminal/export"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	"github.com/de-tools/cost-monitor/pkg/services/cost"
	"github.com/de-tools/cost-monitor/pkg/services/notify"
	"github.com/de-tools/cost-monitor/pkg/store/sqlite"
	"github.com/de-tools/cost-monitor/pkg/store/sqlite/history"
	"github.com/rs/zerolog"
)

// NotifyMode selects where alerts and reports are delivered.
type NotifyMode int

const (
	NotifyNone NotifyMode = iota
	NotifyConsole
	NotifyMail
)

type Options struct {
	Notify NotifyMode
	Output io.Writer
}

// App is a configured monitor with its provider, notifier and run history.
type App struct {
	Config   *config.Config
	Provider *billing.Provider
	Monitor  *cost.Monitor
	History  history.Store // nil when history is disabled
	Reporter *export.Reporter
	db       *sql.DB
}

// New builds the monitor for the configured provider.
func New(ctx context.Context, registry billing.Registry, cfg *config.Config, opts Options) (*App, error) {
	logger := zerolog.Ctx(ctx)

	provider, err := registry.Create(ctx, cfg.Provider, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Provider: provider,
		Reporter: export.NewReporter(opts.Output, provider.Name),
	}

	var monitorOpts []cost.MonitorOption
	switch opts.Notify {
	case NotifyConsole:
		monitorOpts = append(monitorOpts, cost.WithNotifier(a.Reporter))
	case NotifyMail:
		mailer, err := notify.NewMailer(cfg, provider.Name)
		if err != nil {
			return nil, errors.Join(err, a.Close())
		}
		monitorOpts = append(monitorOpts, cost.WithNotifier(mailer))
	}

	if cfg.History.Enabled {
		db, err := sqlite.NewDB(sqlite.Settings{DbPath: cfg.History.Path})
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to open run history: %w", err), a.Close())
		}
		a.db = db

		a.History, err = history.NewStore(db)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to create history store: %w", err), a.Close())
		}
		monitorOpts = append(monitorOpts, cost.WithHistory(a.History))
	}

	aggregator := cost.NewAggregator(provider.Tags, cost.Options{
		Concurrency:   cfg.Aggregation.Concurrency,
		LookupTimeout: cfg.Aggregation.LookupTimeout,
	})
	a.Monitor = cost.NewMonitor(provider.Source, aggregator, cost.MonitorConfig{
		Threshold: cfg.Cost.Threshold,
		TopN:      cfg.Cost.TopN,
		Currency:  cfg.Cost.Currency,
	}, monitorOpts...)

	logger.Debug().
		Str("provider", string(provider.Name)).
		Float64("threshold", cfg.Cost.Threshold).
		Bool("history", a.History != nil).
		Msg("monitor configured")

	return a, nil
}

// Close releases the provider connections and the history database.
func (a *App) Close() error {
	var errs []error
	if err := a.Provider.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close provider: %w", err))
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close history database: %w", err))
		}
	}
	return errors.Join(errs...)
}
