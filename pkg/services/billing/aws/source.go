package aws

import (
	"context"
	"fmt"
	"strconv"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
)

const costMetric = "UnblendedCost"

type costExplorerAPI interface {
	GetCostAndUsage(
		ctx context.Context,
		params *costexplorer.GetCostAndUsageInput,
		optFns ...func(*costexplorer.Options),
	) (*costexplorer.GetCostAndUsageOutput, error)
	GetCostAndUsageWithResources(
		ctx context.Context,
		params *costexplorer.GetCostAndUsageWithResourcesInput,
		optFns ...func(*costexplorer.Options),
	) (*costexplorer.GetCostAndUsageWithResourcesOutput, error)
}

type source struct {
	client costExplorerAPI
}

func NewSource(client costExplorerAPI) billing.Source {
	return &source{client: client}
}

func (s *source) QueryCost(ctx context.Context, query billing.Query) ([]billing.Row, error) {
	if query.Grouped() {
		return s.resourceCosts(ctx, query)
	}
	return s.dailyCosts(ctx, query)
}

func (s *source) dailyCosts(ctx context.Context, query billing.Query) ([]billing.Row, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod:  dateInterval(query),
		Granularity: types.GranularityDaily,
		Metrics:     []string{costMetric},
	}

	var rows []billing.Row
	for {
		out, err := s.client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to get cost and usage: %w", err)
		}

		for _, result := range out.ResultsByTime {
			amount, err := metricAmount(result.Total)
			if err != nil {
				return nil, err
			}
			var day string
			if result.TimePeriod != nil {
				day = awssdk.ToString(result.TimePeriod.Start)
			}
			rows = append(rows, billing.Row{amount, day})
		}

		if awssdk.ToString(out.NextPageToken) == "" {
			return rows, nil
		}
		input.NextPageToken = out.NextPageToken
	}
}

// resourceCosts sums monthly buckets per resource. Cost Explorer has no ungrouped granularity.
func (s *source) resourceCosts(ctx context.Context, query billing.Query) ([]billing.Row, error) {
	input := &costexplorer.GetCostAndUsageWithResourcesInput{
		TimePeriod:  dateInterval(query),
		Granularity: types.GranularityMonthly,
		Metrics:     []string{costMetric},
		Filter: &types.Expression{
			Not: &types.Expression{
				Dimensions: &types.DimensionValues{
					Key:    types.DimensionRecordType,
					Values: []string{"Credit", "Refund"},
				},
			},
		},
		GroupBy: []types.GroupDefinition{
			{
				Type: types.GroupDefinitionTypeDimension,
				Key:  awssdk.String(string(types.DimensionResourceId)),
			},
			{
				Type: types.GroupDefinitionTypeDimension,
				Key:  awssdk.String(string(types.DimensionService)),
			},
		},
	}

	type resourceKey struct{ id, service string }
	totals := map[resourceKey]float64{}
	var order []resourceKey

	for {
		out, err := s.client.GetCostAndUsageWithResources(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to get cost and usage with resources: %w", err)
		}

		for _, result := range out.ResultsByTime {
			for _, group := range result.Groups {
				amount, err := metricAmount(group.Metrics)
				if err != nil {
					return nil, err
				}
				key := resourceKey{id: keyAt(group.Keys, 0), service: keyAt(group.Keys, 1)}
				if _, seen := totals[key]; !seen {
					order = append(order, key)
				}
				totals[key] += amount
			}
		}

		if awssdk.ToString(out.NextPageToken) == "" {
			break
		}
		input.NextPageToken = out.NextPageToken
	}

	rows := make([]billing.Row, 0, len(order))
	for _, key := range order {
		rows = append(rows, billing.Row{totals[key], key.id, key.service})
	}
	return rows, nil
}

// dateInterval converts the inclusive period into Cost Explorer's exclusive end date.
func dateInterval(query billing.Query) *types.DateInterval {
	end := query.Period.End
	endExclusive := time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, end.Location())
	return &types.DateInterval{
		Start: awssdk.String(query.Period.Start.Format("2006-01-02")),
		End:   awssdk.String(endExclusive.Format("2006-01-02")),
	}
}

func metricAmount(metrics map[string]types.MetricValue) (float64, error) {
	metric, ok := metrics[costMetric]
	if !ok || metric.Amount == nil {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(*metric.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s amount %q: %w", costMetric, *metric.Amount, err)
	}
	return amount, nil
}

func keyAt(keys []string, i int) string {
	if i < len(keys) {
		return keys[i]
	}
	return ""
}
