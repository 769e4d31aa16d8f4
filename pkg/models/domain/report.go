package domain

import "time"

// TimePeriod is an inclusive time range.
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

// DailyAlert describes one day of spend checked against the alert threshold.
type DailyAlert struct {
	Date         time.Time
	Period       TimePeriod
	TotalCost    float64
	Threshold    float64
	Currency     string
	Exceeded     bool
	TopResources []ResourceCost
}

// ExceededBy returns how far the total cost is above the threshold.
func (a DailyAlert) ExceededBy() float64 {
	if a.TotalCost <= a.Threshold {
		return 0
	}
	return a.TotalCost - a.Threshold
}

// OwnerSummary is a single owner row of a monthly report.
type OwnerSummary struct {
	Owner         string
	TotalCost     float64
	ResourceCount int
	Share         float64 // percent of the report total
	Resources     []ResourceCost
}

// MonthlyReport is the cost of a month broken down by resource owner.
type MonthlyReport struct {
	Month     string // 2024-01
	Period    TimePeriod
	TotalCost float64
	Currency  string
	Owners    []OwnerSummary // highest total first
}

// Empty reports whether the report carries no cost data.
func (r MonthlyReport) Empty() bool {
	return len(r.Owners) == 0
}
