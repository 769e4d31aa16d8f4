package domain

import "time"

type RunKind string

const (
	RunKindDaily   RunKind = "daily"
	RunKindMonthly RunKind = "monthly"
)

// Run is a recorded execution of a daily check or a monthly report.
type Run struct {
	ID        int64
	Kind      RunKind
	Period    TimePeriod
	TotalCost float64
	Threshold float64
	Exceeded  bool
	Currency  string
	CreatedAt time.Time
	Owners    []OwnerSummary
}
