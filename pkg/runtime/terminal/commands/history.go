package commands

import (
	"fmt"

	"github.com/de-tools/cost-monitor/pkg/adapters"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/runtime/app"
	"github.com/de-tools/cost-monitor/pkg/store/sqlite/history"
	"github.com/spf13/cobra"
)

type HistoryCmd struct {
	kind  string
	limit int
	load  AppLoader
}

func NewHistoryCmd(load AppLoader) *cobra.Command {
	hc := &HistoryCmd{load: load}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded daily checks and monthly reports",
		RunE:  hc.run,
	}

	cmd.Flags().StringVar(&hc.kind, "kind", "", "Only list runs of this kind (daily or monthly)")
	cmd.Flags().IntVar(&hc.limit, "limit", history.DefaultListLimit, "Maximum number of runs to list")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	switch domain.RunKind(hc.kind) {
	case "", domain.RunKindDaily, domain.RunKindMonthly:
	default:
		return fmt.Errorf("invalid kind %q, expected daily or monthly", hc.kind)
	}

	a, err := hc.load(cmd, app.NotifyNone)
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	if a.History == nil {
		return errHistoryDisabled
	}

	runs, err := a.History.ListRuns(ctx, hc.kind, hc.limit)
	if err != nil {
		return err
	}

	result := make([]domain.Run, 0, len(runs))
	for _, run := range runs {
		result = append(result, adapters.MapStoreRunToDomain(run))
	}
	return a.Reporter.PrintRuns(result)
}
