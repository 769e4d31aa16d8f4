package store

import "time"

// UsageRecord is one priced usage line read from a billing table.
type UsageRecord struct {
	ResourceID   string
	ResourceType string
	Quantity     float64
	Unit         string
	Rate         float64
	Currency     string
}

type Run struct {
	ID          int64
	Kind        string
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalCost   float64
	Threshold   float64
	Exceeded    bool
	Currency    string
	CreatedAt   time.Time
	Owners      []RunOwner
}

type RunOwner struct {
	Owner         string
	TotalCost     float64
	ResourceCount int
}
