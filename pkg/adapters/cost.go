package adapters

import (
	"github.com/de-tools/cost-monitor/pkg/models/api"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/models/store"
)

// MapStoreUsageRecordToRow converts a priced usage line into a [cost, resource_id, resource_type] row.
func MapStoreUsageRecordToRow(usage store.UsageRecord) []any {
	return []any{usage.Quantity * usage.Rate, usage.ResourceID, usage.ResourceType}
}

func MapTimePeriodDomainToApi(p domain.TimePeriod) api.TimePeriod {
	return api.TimePeriod{
		Start: p.Start,
		End:   p.End,
	}
}

func MapResourceCostDomainToApi(rc domain.ResourceCost) api.ResourceCost {
	return api.ResourceCost{
		ResourceID:   rc.ResourceID,
		ResourceName: rc.ResourceName,
		ResourceType: rc.ResourceType,
		Cost:         rc.Cost,
		Owner:        rc.Owner,
	}
}

func MapResourceCostsDomainToApi(records []domain.ResourceCost) []api.ResourceCost {
	result := make([]api.ResourceCost, 0, len(records))
	for _, rc := range records {
		result = append(result, MapResourceCostDomainToApi(rc))
	}
	return result
}

func MapDailyAlertDomainToApi(alert *domain.DailyAlert) api.DailyCost {
	return api.DailyCost{
		Date:         alert.Date.Format("2006-01-02"),
		Period:       MapTimePeriodDomainToApi(alert.Period),
		TotalCost:    alert.TotalCost,
		Threshold:    alert.Threshold,
		Exceeded:     alert.Exceeded,
		Currency:     alert.Currency,
		TopResources: MapResourceCostsDomainToApi(alert.TopResources),
	}
}

func MapMonthlyReportDomainToApi(report *domain.MonthlyReport) api.OwnerReport {
	owners := make([]api.OwnerSummary, 0, len(report.Owners))
	for _, o := range report.Owners {
		owners = append(owners, api.OwnerSummary{
			Owner:         o.Owner,
			TotalCost:     o.TotalCost,
			ResourceCount: o.ResourceCount,
			Share:         o.Share,
			Resources:     MapResourceCostsDomainToApi(o.Resources),
		})
	}

	return api.OwnerReport{
		Month:     report.Month,
		Period:    MapTimePeriodDomainToApi(report.Period),
		TotalCost: report.TotalCost,
		Currency:  report.Currency,
		Owners:    owners,
	}
}
