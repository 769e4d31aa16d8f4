package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type CheckCmd struct {
	dryRun bool
	load   AppLoader
}

func NewCheckCmd(load AppLoader) *cobra.Command {
	cc := &CheckCmd{load: load}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check yesterday's cost against the alert threshold",
		RunE:  cc.run,
	}

	cmd.Flags().BoolVar(&cc.dryRun, "dry-run", false, "Print the alert instead of sending email")

	return cmd
}

func (cc *CheckCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := cc.load(cmd, notifyMode(cc.dryRun))
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	alert, err := a.Monitor.DailyCheck(ctx)
	if err != nil {
		return fmt.Errorf("daily check failed: %w", err)
	}

	// a dry run has already printed an exceeded alert
	if cc.dryRun && alert.Exceeded {
		return nil
	}
	return a.Reporter.SendDailyAlert(ctx, alert)
}
