package commands

import (
	"fmt"

	"github.com/de-tools/cost-monitor/pkg/runtime/app"
	"github.com/de-tools/cost-monitor/pkg/services/cost"
	"github.com/spf13/cobra"
)

type OwnersCmd struct {
	month string
	load  AppLoader
}

func NewOwnersCmd(load AppLoader) *cobra.Command {
	oc := &OwnersCmd{load: load}
	cmd := &cobra.Command{
		Use:   "owners",
		Short: "Print the cost of a month grouped by resource owner",
		RunE:  oc.run,
	}

	cmd.Flags().StringVar(&oc.month, "month", "", "Month as YYYY-MM (default is the previous month)")

	return cmd
}

func (oc *OwnersCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := oc.load(cmd, app.NotifyNone)
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	loc, err := location(a)
	if err != nil {
		return err
	}

	period := cost.PreviousMonth(a.Monitor.Now().In(loc))
	if oc.month != "" {
		period, err = cost.ParseMonth(oc.month, loc)
		if err != nil {
			return err
		}
	}

	report, err := a.Monitor.OwnerBreakdown(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to get owner breakdown: %w", err)
	}
	return a.Reporter.SendMonthlyReport(ctx, report)
}
