package commands

import (
	"errors"
	"time"

	"github.com/de-tools/cost-monitor/pkg/runtime/app"
	"github.com/spf13/cobra"
)

// AppLoader builds the configured application for a command.
type AppLoader func(cmd *cobra.Command, mode app.NotifyMode) (*app.App, error)

var errHistoryDisabled = errors.New("run history is disabled, set history.enabled to true")

func notifyMode(dryRun bool) app.NotifyMode {
	if dryRun {
		return app.NotifyConsole
	}
	return app.NotifyMail
}

func closeApp(cmd *cobra.Command, a *app.App) {
	if err := a.Close(); err != nil {
		cmd.PrintErrf("Warning: %v\n", err)
	}
}

func location(a *app.App) (*time.Location, error) {
	return a.Config.Location()
}
