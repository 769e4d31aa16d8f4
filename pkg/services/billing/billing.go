package billing

import (
	"context"
	"errors"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
)

var (
	ErrUnknownProvider     = errors.New("unknown billing provider")
	ErrUnsupportedResource = errors.New("unsupported resource")
)

// Row is one positional record returned by a billing query: [cost, resource_id, resource_type, ...].
type Row []any

type Granularity string

const (
	GranularityDaily Granularity = "Daily"
	GranularityNone  Granularity = "None"
)

type Dimension string

const (
	DimensionResourceID   Dimension = "ResourceId"
	DimensionResourceType Dimension = "ResourceType"
)

type Query struct {
	Period      domain.TimePeriod
	Granularity Granularity
	GroupBy     []Dimension
}

// DailyTotalQuery asks for ungrouped cost at daily granularity.
func DailyTotalQuery(period domain.TimePeriod) Query {
	return Query{Period: period, Granularity: GranularityDaily}
}

// ResourceQuery asks for cost grouped by resource over the whole period.
func ResourceQuery(period domain.TimePeriod) Query {
	return Query{
		Period:      period,
		Granularity: GranularityNone,
		GroupBy:     []Dimension{DimensionResourceID, DimensionResourceType},
	}
}

// Grouped reports whether the query groups rows by resource.
func (q Query) Grouped() bool {
	return len(q.GroupBy) > 0
}

// Source runs cost queries against a billing backend.
type Source interface {
	QueryCost(ctx context.Context, query Query) ([]Row, error)
}

// TagLookup fetches the tags attached to a resource.
type TagLookup interface {
	LookupTags(ctx context.Context, resourceID string) (map[string]string, error)
}

// Provider bundles the billing source and tag lookup of one cloud.
type Provider struct {
	Name   domain.ProviderType
	Source Source
	Tags   TagLookup
	Close  func() error
}

// Shutdown releases connections held by the provider.
func (p *Provider) Shutdown() error {
	if p == nil || p.Close == nil {
		return nil
	}
	return p.Close()
}
