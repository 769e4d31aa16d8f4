package adapters

import (
	"github.com/de-tools/cost-monitor/pkg/models/api"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/models/store"
)

func MapDomainRunToStore(run domain.Run) store.Run {
	owners := make([]store.RunOwner, 0, len(run.Owners))
	for _, o := range run.Owners {
		owners = append(owners, store.RunOwner{
			Owner:         o.Owner,
			TotalCost:     o.TotalCost,
			ResourceCount: o.ResourceCount,
		})
	}

	return store.Run{
		ID:          run.ID,
		Kind:        string(run.Kind),
		PeriodStart: run.Period.Start,
		PeriodEnd:   run.Period.End,
		TotalCost:   run.TotalCost,
		Threshold:   run.Threshold,
		Exceeded:    run.Exceeded,
		Currency:    run.Currency,
		CreatedAt:   run.CreatedAt,
		Owners:      owners,
	}
}

func MapStoreRunToDomain(run store.Run) domain.Run {
	var owners []domain.OwnerSummary
	for _, o := range run.Owners {
		owners = append(owners, domain.OwnerSummary{
			Owner:         o.Owner,
			TotalCost:     o.TotalCost,
			ResourceCount: o.ResourceCount,
			Share:         percent(o.TotalCost, run.TotalCost),
		})
	}

	return domain.Run{
		ID:   run.ID,
		Kind: domain.RunKind(run.Kind),
		Period: domain.TimePeriod{
			Start: run.PeriodStart,
			End:   run.PeriodEnd,
		},
		TotalCost: run.TotalCost,
		Threshold: run.Threshold,
		Exceeded:  run.Exceeded,
		Currency:  run.Currency,
		CreatedAt: run.CreatedAt,
		Owners:    owners,
	}
}

func MapRunDomainToApi(run domain.Run) api.Run {
	var owners []api.RunOwner
	for _, o := range run.Owners {
		owners = append(owners, api.RunOwner{
			Owner:         o.Owner,
			TotalCost:     o.TotalCost,
			ResourceCount: o.ResourceCount,
		})
	}

	return api.Run{
		ID:        run.ID,
		Kind:      string(run.Kind),
		Period:    MapTimePeriodDomainToApi(run.Period),
		TotalCost: run.TotalCost,
		Threshold: run.Threshold,
		Exceeded:  run.Exceeded,
		Currency:  run.Currency,
		CreatedAt: run.CreatedAt,
		Owners:    owners,
	}
}

func percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
