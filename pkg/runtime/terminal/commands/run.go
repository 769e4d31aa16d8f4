package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/de-tools/cost-monitor/pkg/services/schedule"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type RunCmd struct {
	dryRun bool
	load   AppLoader
}

func NewRunCmd(load AppLoader) *cobra.Command {
	rc := &RunCmd{load: load}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the daily check and the monthly report on their schedules",
		RunE:  rc.run,
	}

	cmd.Flags().BoolVar(&rc.dryRun, "dry-run", false, "Print alerts and reports instead of sending email")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := rc.load(cmd, notifyMode(rc.dryRun))
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	loc, err := location(a)
	if err != nil {
		return err
	}

	scheduler := schedule.NewScheduler(loc)
	err = scheduler.Add("daily-check", a.Config.Schedule.Daily, func(ctx context.Context) error {
		_, err := a.Monitor.DailyCheck(ctx)
		return err
	})
	if err != nil {
		return err
	}
	err = scheduler.Add("monthly-report", a.Config.Schedule.Monthly, func(ctx context.Context) error {
		_, err := a.Monitor.MonthlyReport(ctx)
		return err
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("timezone", loc.String()).Msg("scheduler running, press Ctrl+C to stop")
	return scheduler.Run(ctx)
}
