package commands

import (
	"fmt"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/cost"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	dryRun bool
	month  string
	load   AppLoader
}

func NewReportCmd(load AppLoader) *cobra.Command {
	rc := &ReportCmd{load: load}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build and send the monthly cost report by owner",
		RunE:  rc.run,
	}

	cmd.Flags().BoolVar(&rc.dryRun, "dry-run", false, "Print the report instead of sending email")
	cmd.Flags().StringVar(&rc.month, "month", "", "Month to report on as YYYY-MM (default is the previous month)")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := rc.load(cmd, notifyMode(rc.dryRun))
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	var report *domain.MonthlyReport
	if rc.month == "" {
		report, err = a.Monitor.MonthlyReport(ctx)
	} else {
		loc, locErr := location(a)
		if locErr != nil {
			return locErr
		}
		period, parseErr := cost.ParseMonth(rc.month, loc)
		if parseErr != nil {
			return parseErr
		}
		report, err = a.Monitor.MonthlyReportFor(ctx, period)
	}
	if err != nil {
		return fmt.Errorf("monthly report failed: %w", err)
	}

	if rc.dryRun && !report.Empty() {
		return nil
	}
	return a.Reporter.SendMonthlyReport(ctx, report)
}
