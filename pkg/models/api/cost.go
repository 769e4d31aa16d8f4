package api

import "time"

type TimePeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type ResourceCost struct {
	ResourceID   string  `json:"resource_id"`
	ResourceName string  `json:"resource_name"`
	ResourceType string  `json:"resource_type"`
	Cost         float64 `json:"cost"`
	Owner        string  `json:"owner,omitempty"`
}

type DailyCost struct {
	Date         string         `json:"date"`
	Period       TimePeriod     `json:"period"`
	TotalCost    float64        `json:"total_cost"`
	Threshold    float64        `json:"threshold"`
	Exceeded     bool           `json:"exceeded"`
	Currency     string         `json:"currency"`
	TopResources []ResourceCost `json:"top_resources"`
}

type OwnerSummary struct {
	Owner         string         `json:"owner"`
	TotalCost     float64        `json:"total_cost"`
	ResourceCount int            `json:"resource_count"`
	Share         float64        `json:"share_percent"`
	Resources     []ResourceCost `json:"resources"`
}

type OwnerReport struct {
	Month     string         `json:"month"`
	Period    TimePeriod     `json:"period"`
	TotalCost float64        `json:"total_cost"`
	Currency  string         `json:"currency"`
	Owners    []OwnerSummary `json:"owners"`
}

type RunOwner struct {
	Owner         string  `json:"owner"`
	TotalCost     float64 `json:"total_cost"`
	ResourceCount int     `json:"resource_count"`
}

type Run struct {
	ID        int64      `json:"id"`
	Kind      string     `json:"kind"`
	Period    TimePeriod `json:"period"`
	TotalCost float64    `json:"total_cost"`
	Threshold float64    `json:"threshold"`
	Exceeded  bool       `json:"exceeded"`
	Currency  string     `json:"currency"`
	CreatedAt time.Time  `json:"created_at"`
	Owners    []RunOwner `json:"owners,omitempty"`
}

type Health struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
}
