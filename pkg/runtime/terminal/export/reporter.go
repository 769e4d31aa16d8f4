package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
)

type TableConfig struct {
	RankWidth  int
	NameWidth  int
	TypeWidth  int
	OwnerWidth int
	CostWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		RankWidth:  4,
		NameWidth:  32,
		TypeWidth:  36,
		OwnerWidth: 28,
		CostWidth:  12,
	}
}

// Reporter renders alerts, reports and run history as console tables.
// It satisfies the monitor's notifier so a dry run prints instead of mailing.
type Reporter struct {
	writer io.Writer
	config TableConfig
	cloud  string
	tmpl   *template.Template
}

func NewReporter(writer io.Writer, provider domain.ProviderType) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	r := &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		cloud:  provider.DisplayName(),
	}
	r.tmpl = template.Must(template.New("console").Funcs(r.funcMap()).Parse(consoleTemplates))
	return r
}

func (r *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(rank any, name, kind, owner string, cost any) string {
			return fmt.Sprintf("| %-*v | %-*s | %-*s | %-*s | %*v |",
				r.config.RankWidth, rank,
				r.config.NameWidth, truncate(name, r.config.NameWidth),
				r.config.TypeWidth, truncate(kind, r.config.TypeWidth),
				r.config.OwnerWidth, truncate(owner, r.config.OwnerWidth),
				r.config.CostWidth, cost)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", r.config.RankWidth+2),
				strings.Repeat("-", r.config.NameWidth+2),
				strings.Repeat("-", r.config.TypeWidth+2),
				strings.Repeat("-", r.config.OwnerWidth+2),
				strings.Repeat("-", r.config.CostWidth+2))
		},
		"money": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"inc": func(i int) int {
			return i + 1
		},
	}
}

const consoleTemplates = `
{{define "resources"}}{{separator}}
{{formatRow "#" "Resource" "Type" "Owner" "Cost"}}
{{separator}}
{{range $i, $r := .}}{{formatRow (inc $i) $r.ResourceName $r.ResourceType $r.Owner (money $r.Cost)}}
{{end}}{{separator}}
{{end}}

{{define "daily"}}
{{.Cloud}} cost for {{.Alert.Date.Format "2006-01-02"}}

Total Cost: {{.Alert.Currency}} {{money .Alert.TotalCost}}
Threshold:  {{.Alert.Currency}} {{money .Alert.Threshold}}
{{if .Alert.Exceeded}}Exceeded By: {{.Alert.Currency}} {{money .Alert.ExceededBy}}
{{else}}Within threshold
{{end}}{{if .Alert.TopResources}}
{{template "resources" .Alert.TopResources}}{{end}}{{end}}

{{define "monthly"}}
{{.Cloud}} Monthly Cost Report {{.Report.Month}}

Total Cost: {{.Report.Currency}} {{money .Report.TotalCost}}
Owners: {{len .Report.Owners}}
{{range $i, $o := .Report.Owners}}
=== {{inc $i}}. {{$o.Owner}}: {{$.Report.Currency}} {{money $o.TotalCost}} ({{printf "%.1f" $o.Share}}%, {{$o.ResourceCount}} resources) ===
{{template "resources" $o.Resources}}{{end}}{{if not .Report.Owners}}
No cost data for this month.
{{end}}{{end}}

{{define "runs"}}
{{printf "%-6s %-8s %-10s %-10s %12s %12s %-8s %s" "ID" "KIND" "START" "END" "TOTAL" "THRESHOLD" "EXCEEDED" "OWNERS"}}
{{range .}}{{printf "%-6d %-8s %-10s %-10s %12.2f %12.2f %-8t %d" .ID .Kind (.Period.Start.Format "2006-01-02") (.Period.End.Format "2006-01-02") .TotalCost .Threshold .Exceeded (len .Owners)}}
{{end}}{{end}}
`

// SendDailyAlert prints the alert.
func (r *Reporter) SendDailyAlert(_ context.Context, alert *domain.DailyAlert) error {
	return r.execute("daily", map[string]any{"Cloud": r.cloud, "Alert": alert})
}

// SendMonthlyReport prints the owner report.
func (r *Reporter) SendMonthlyReport(_ context.Context, report *domain.MonthlyReport) error {
	return r.execute("monthly", map[string]any{"Cloud": r.cloud, "Report": report})
}

func (r *Reporter) PrintRuns(runs []domain.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(r.writer, "No runs recorded.")
		return err
	}
	return r.execute("runs", runs)
}

func (r *Reporter) execute(name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(r.writer, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
