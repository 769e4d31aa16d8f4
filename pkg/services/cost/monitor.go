package cost

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/cost-monitor/pkg/adapters"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/models/store"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/rs/zerolog"
)

// Notifier delivers alerts and reports.
type Notifier interface {
	SendDailyAlert(ctx context.Context, alert *domain.DailyAlert) error
	SendMonthlyReport(ctx context.Context, report *domain.MonthlyReport) error
}

// RunRecorder persists completed runs.
type RunRecorder interface {
	AddRun(ctx context.Context, run store.Run) (int64, error)
}

type MonitorConfig struct {
	Threshold float64
	TopN      int
	Currency  string
}

type MonitorOption func(*Monitor)

// WithClock replaces the time source used to pick the reporting period.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) {
		m.now = now
	}
}

func WithNotifier(notifier Notifier) MonitorOption {
	return func(m *Monitor) {
		m.notifier = notifier
	}
}

func WithHistory(history RunRecorder) MonitorOption {
	return func(m *Monitor) {
		m.history = history
	}
}

// Monitor checks daily spend against a threshold and builds monthly owner reports.
type Monitor struct {
	source     billing.Source
	aggregator *Aggregator
	notifier   Notifier
	history    RunRecorder
	config     MonitorConfig
	now        func() time.Time
}

func NewMonitor(source billing.Source, aggregator *Aggregator, config MonitorConfig, opts ...MonitorOption) *Monitor {
	if config.TopN <= 0 {
		config.TopN = DefaultTopN
	}
	if config.Currency == "" {
		config.Currency = "USD"
	}

	m := &Monitor{
		source:     source,
		aggregator: aggregator,
		config:     config,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the current time of the monitor clock.
func (m *Monitor) Now() time.Time {
	return m.now()
}

// DailyTotal returns the total cost over the period.
func (m *Monitor) DailyTotal(ctx context.Context, period domain.TimePeriod) (float64, error) {
	rows, err := m.source.QueryCost(ctx, billing.DailyTotalQuery(period))
	if err != nil {
		return 0, fmt.Errorf("failed to query daily cost: %w", err)
	}
	return SumCosts(ctx, rows), nil
}

// TopResources returns the most expensive resources of the period with their owners.
func (m *Monitor) TopResources(ctx context.Context, period domain.TimePeriod, limit int) ([]domain.ResourceCost, error) {
	records, err := m.resourceCosts(ctx, period)
	if err != nil {
		return nil, err
	}

	top := m.aggregator.Rank(ctx, records, limit)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return top, nil
}

// DailySummary returns the total and the top resources of a day regardless of the threshold.
func (m *Monitor) DailySummary(ctx context.Context, period domain.TimePeriod, limit int) (*domain.DailyAlert, error) {
	if limit <= 0 {
		limit = m.config.TopN
	}

	total, err := m.DailyTotal(ctx, period)
	if err != nil {
		return nil, err
	}

	top, err := m.TopResources(ctx, period, limit)
	if err != nil {
		return nil, err
	}
	return m.newAlert(period, total, top), nil
}

// DailyCheck compares yesterday's cost with the threshold and sends an alert when it is exceeded.
func (m *Monitor) DailyCheck(ctx context.Context) (*domain.DailyAlert, error) {
	logger := zerolog.Ctx(ctx)
	period := Yesterday(m.now())

	total, err := m.DailyTotal(ctx, period)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("date", period.Start.Format(DateLayout)).
		Float64("total_cost", total).
		Float64("threshold", m.config.Threshold).
		Msg("daily cost checked")

	var top []domain.ResourceCost
	if total > m.config.Threshold {
		top, err = m.TopResources(ctx, period, m.config.TopN)
		if err != nil {
			return nil, err
		}
	}

	alert := m.newAlert(period, total, top)
	m.record(ctx, domain.Run{
		Kind:      domain.RunKindDaily,
		Period:    period,
		TotalCost: total,
		Threshold: m.config.Threshold,
		Exceeded:  alert.Exceeded,
		Currency:  m.config.Currency,
	})

	if !alert.Exceeded {
		logger.Info().Msg("daily cost within threshold")
		return alert, nil
	}

	logger.Warn().Float64("exceeded_by", alert.ExceededBy()).Msg("daily cost exceeded threshold")
	if m.notifier != nil {
		if err := m.notifier.SendDailyAlert(ctx, alert); err != nil {
			return alert, fmt.Errorf("failed to send daily alert: %w", err)
		}
	}
	return alert, nil
}

// OwnerBreakdown groups the cost of the period by resource owner.
func (m *Monitor) OwnerBreakdown(ctx context.Context, period domain.TimePeriod) (*domain.MonthlyReport, error) {
	records, err := m.resourceCosts(ctx, period)
	if err != nil {
		return nil, err
	}

	groups := m.aggregator.AggregateByOwner(ctx, records)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &domain.MonthlyReport{
		Month:    period.Start.Format(MonthLayout),
		Period:   period,
		Currency: m.config.Currency,
		Owners:   make([]domain.OwnerSummary, 0, len(groups)),
	}
	sorted := SortGroups(groups)
	for _, group := range sorted {
		report.TotalCost += group.TotalCost
	}
	for _, group := range sorted {
		report.Owners = append(report.Owners, domain.OwnerSummary{
			Owner:         group.Owner,
			TotalCost:     group.TotalCost,
			ResourceCount: group.ResourceCount,
			Share:         share(group.TotalCost, report.TotalCost),
			Resources:     group.Resources,
		})
	}
	return report, nil
}

// MonthlyReport builds and sends the owner report for the previous calendar month.
func (m *Monitor) MonthlyReport(ctx context.Context) (*domain.MonthlyReport, error) {
	return m.MonthlyReportFor(ctx, PreviousMonth(m.now()))
}

// MonthlyReportFor builds and sends the owner report for the given period.
// Nothing is sent when the period has no cost data.
func (m *Monitor) MonthlyReportFor(ctx context.Context, period domain.TimePeriod) (*domain.MonthlyReport, error) {
	logger := zerolog.Ctx(ctx)

	report, err := m.OwnerBreakdown(ctx, period)
	if err != nil {
		return nil, err
	}

	if report.Empty() {
		logger.Info().Str("month", report.Month).Msg("no cost data, skipping report generation")
		return report, nil
	}

	logger.Info().
		Str("month", report.Month).
		Float64("total_cost", report.TotalCost).
		Int("owners", len(report.Owners)).
		Msg("monthly report generated")

	m.record(ctx, domain.Run{
		Kind:      domain.RunKindMonthly,
		Period:    period,
		TotalCost: report.TotalCost,
		Currency:  m.config.Currency,
		Owners:    report.Owners,
	})

	if m.notifier != nil {
		if err := m.notifier.SendMonthlyReport(ctx, report); err != nil {
			return report, fmt.Errorf("failed to send monthly report: %w", err)
		}
	}
	return report, nil
}

func (m *Monitor) resourceCosts(ctx context.Context, period domain.TimePeriod) ([]domain.ResourceCost, error) {
	rows, err := m.source.QueryCost(ctx, billing.ResourceQuery(period))
	if err != nil {
		return nil, fmt.Errorf("failed to query resource costs: %w", err)
	}
	return Normalize(ctx, rows, ResourceRow), nil
}

func (m *Monitor) newAlert(period domain.TimePeriod, total float64, top []domain.ResourceCost) *domain.DailyAlert {
	if top == nil {
		top = []domain.ResourceCost{}
	}
	return &domain.DailyAlert{
		Date:         period.Start,
		Period:       period,
		TotalCost:    total,
		Threshold:    m.config.Threshold,
		Currency:     m.config.Currency,
		Exceeded:     total > m.config.Threshold,
		TopResources: top,
	}
}

func (m *Monitor) record(ctx context.Context, run domain.Run) {
	if m.history == nil {
		return
	}
	run.CreatedAt = m.now()

	id, err := m.history.AddRun(ctx, adapters.MapDomainRunToStore(run))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("kind", string(run.Kind)).Msg("failed to record run")
		return
	}
	zerolog.Ctx(ctx).Debug().Int64("run_id", id).Msg("run recorded")
}

func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
