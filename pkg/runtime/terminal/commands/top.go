package commands

import (
	"fmt"

	"github.com/de-tools/cost-monitor/pkg/runtime/app"
	"github.com/de-tools/cost-monitor/pkg/services/cost"
	"github.com/spf13/cobra"
)

type TopCmd struct {
	date  string
	limit int
	load  AppLoader
}

func NewTopCmd(load AppLoader) *cobra.Command {
	tc := &TopCmd{load: load}
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the most expensive resources of a day",
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.date, "date", "", "Day as YYYY-MM-DD (default is yesterday)")
	cmd.Flags().IntVar(&tc.limit, "limit", cost.DefaultTopN, "Number of resources to print")

	return cmd
}

func (tc *TopCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := tc.load(cmd, app.NotifyNone)
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	loc, err := location(a)
	if err != nil {
		return err
	}

	period := cost.Yesterday(a.Monitor.Now().In(loc))
	if tc.date != "" {
		period, err = cost.ParseDay(tc.date, loc)
		if err != nil {
			return err
		}
	}

	summary, err := a.Monitor.DailySummary(ctx, period, tc.limit)
	if err != nil {
		return fmt.Errorf("failed to get top resources: %w", err)
	}
	return a.Reporter.SendDailyAlert(ctx, summary)
}
