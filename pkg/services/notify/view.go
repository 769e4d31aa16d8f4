package notify

import (
	"fmt"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
)

const (
	summaryResources = 5
	detailResources  = 10
)

type resourceView struct {
	Rank  int
	Name  string
	Type  string
	Owner string
	Cost  string
}

type dailyView struct {
	Cloud      string
	Date       string
	Currency   string
	Total      string
	Threshold  string
	ExceededBy string
	Resources  []resourceView
}

type ownerView struct {
	Rank   int
	Owner  string
	Total  string
	Count  int
	Share  string
	Top    []resourceView
	Detail []resourceView
	More   int
}

type monthlyView struct {
	Cloud    string
	Month    string
	Currency string
	Total    string
	Owners   []ownerView
}

func newDailyView(cloud string, alert *domain.DailyAlert) dailyView {
	return dailyView{
		Cloud:      cloud,
		Date:       alert.Date.Format("2006-01-02"),
		Currency:   alert.Currency,
		Total:      money(alert.TotalCost),
		Threshold:  money(alert.Threshold),
		ExceededBy: money(alert.ExceededBy()),
		Resources:  resourceViews(alert.TopResources, len(alert.TopResources)),
	}
}

func newMonthlyView(cloud string, report *domain.MonthlyReport) monthlyView {
	view := monthlyView{
		Cloud:    cloud,
		Month:    report.Month,
		Currency: report.Currency,
		Total:    money(report.TotalCost),
		Owners:   make([]ownerView, 0, len(report.Owners)),
	}
	for i, owner := range report.Owners {
		detail := resourceViews(owner.Resources, detailResources)
		view.Owners = append(view.Owners, ownerView{
			Rank:   i + 1,
			Owner:  owner.Owner,
			Total:  money(owner.TotalCost),
			Count:  owner.ResourceCount,
			Share:  fmt.Sprintf("%.1f", owner.Share),
			Top:    resourceViews(owner.Resources, summaryResources),
			Detail: detail,
			More:   owner.ResourceCount - len(detail),
		})
	}
	return view
}

func resourceViews(resources []domain.ResourceCost, limit int) []resourceView {
	if limit > len(resources) {
		limit = len(resources)
	}
	views := make([]resourceView, 0, limit)
	for i, rc := range resources[:limit] {
		views = append(views, resourceView{
			Rank:  i + 1,
			Name:  rc.ResourceName,
			Type:  rc.ResourceType,
			Owner: rc.Owner,
			Cost:  money(rc.Cost),
		})
	}
	return views
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
