package cost

import (
	"context"
	"sort"
	"time"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
)

const DefaultTopN = 5

type Options struct {
	// Concurrency bounds parallel tag lookups. Values below 2 resolve sequentially.
	Concurrency   int
	LookupTimeout time.Duration
}

// Aggregator ranks resource costs and groups them by owner.
type Aggregator struct {
	resolver *Resolver
}

func NewAggregator(tags billing.TagLookup, opts Options) *Aggregator {
	return &Aggregator{
		resolver: NewResolver(tags, opts.Concurrency, opts.LookupTimeout),
	}
}

// Rank returns the limit most expensive records with owners resolved.
// Equal costs keep their input order. A limit below 1 means DefaultTopN.
func (a *Aggregator) Rank(ctx context.Context, records []domain.ResourceCost, limit int) []domain.ResourceCost {
	if limit <= 0 {
		limit = DefaultTopN
	}

	ranked := make([]domain.ResourceCost, len(records))
	copy(ranked, records)
	sortByCost(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	a.resolver.ResolveAll(ctx, ranked)
	return ranked
}

// AggregateByOwner resolves the owner of every record and groups them.
func (a *Aggregator) AggregateByOwner(ctx context.Context, records []domain.ResourceCost) map[string]*domain.OwnerGroup {
	groups := make(map[string]*domain.OwnerGroup)
	if len(records) == 0 {
		return groups
	}

	resolved := make([]domain.ResourceCost, len(records))
	copy(resolved, records)
	a.resolver.ResolveAll(ctx, resolved)

	for _, rc := range resolved {
		group, ok := groups[rc.Owner]
		if !ok {
			group = &domain.OwnerGroup{Owner: rc.Owner}
			groups[rc.Owner] = group
		}
		group.Add(rc)
	}

	for _, group := range groups {
		sortByCost(group.Resources)
	}
	return groups
}

// SortGroups orders owner groups by total cost, highest first, then by owner.
func SortGroups(groups map[string]*domain.OwnerGroup) []*domain.OwnerGroup {
	sorted := make([]*domain.OwnerGroup, 0, len(groups))
	for _, group := range groups {
		sorted = append(sorted, group)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TotalCost != sorted[j].TotalCost {
			return sorted[i].TotalCost > sorted[j].TotalCost
		}
		return sorted[i].Owner < sorted[j].Owner
	})
	return sorted
}

func sortByCost(records []domain.ResourceCost) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Cost > records[j].Cost
	})
}
