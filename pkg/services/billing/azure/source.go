package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/rs/zerolog"
)

const (
	costAggregation = "totalCost"
	costColumn      = "PreTaxCost"
)

type usageClient interface {
	Usage(
		ctx context.Context,
		scope string,
		parameters armcostmanagement.QueryDefinition,
		options *armcostmanagement.QueryClientUsageOptions,
	) (armcostmanagement.QueryClientUsageResponse, error)
}

type source struct {
	client usageClient
	scope  string
}

func NewSource(client usageClient, scope string) billing.Source {
	return &source{client: client, scope: scope}
}

func (s *source) QueryCost(ctx context.Context, query billing.Query) ([]billing.Row, error) {
	logger := zerolog.Ctx(ctx)

	result, err := s.client.Usage(ctx, s.scope, queryDefinition(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query Azure costs: %w", err)
	}
	if result.Properties == nil {
		return []billing.Row{}, nil
	}
	if result.Properties.NextLink != nil && *result.Properties.NextLink != "" {
		logger.Warn().Str("scope", s.scope).Msg("Azure cost query result is paged, only the first page is used")
	}

	return toRows(result.Properties, query.Grouped()), nil
}

func queryDefinition(query billing.Query) armcostmanagement.QueryDefinition {
	dataset := &armcostmanagement.QueryDataset{
		Aggregation: map[string]*armcostmanagement.QueryAggregation{
			costAggregation: {
				Name:     to.Ptr(costColumn),
				Function: to.Ptr(armcostmanagement.FunctionTypeSum),
			},
		},
	}
	if query.Granularity == billing.GranularityDaily {
		dataset.Granularity = to.Ptr(armcostmanagement.GranularityTypeDaily)
	}
	for _, dim := range query.GroupBy {
		dataset.Grouping = append(dataset.Grouping, &armcostmanagement.QueryGrouping{
			Name: to.Ptr(string(dim)),
			Type: to.Ptr(armcostmanagement.QueryColumnTypeDimension),
		})
	}

	return armcostmanagement.QueryDefinition{
		Type:      to.Ptr(armcostmanagement.ExportTypeActualCost),
		Timeframe: to.Ptr(armcostmanagement.TimeframeTypeCustom),
		TimePeriod: &armcostmanagement.QueryTimePeriod{
			From: to.Ptr(query.Period.Start),
			To:   to.Ptr(query.Period.End),
		},
		Dataset: dataset,
	}
}

// toRows reorders result columns into [cost, resource_id, resource_type].
func toRows(props *armcostmanagement.QueryProperties, grouped bool) []billing.Row {
	costIdx := columnIndex(props.Columns, costAggregation, costColumn, "Cost")
	idIdx := columnIndex(props.Columns, string(billing.DimensionResourceID))
	typeIdx := columnIndex(props.Columns, string(billing.DimensionResourceType))

	rows := make([]billing.Row, 0, len(props.Rows))
	for _, raw := range props.Rows {
		if costIdx < 0 {
			rows = append(rows, billing.Row(raw))
			continue
		}
		if !grouped {
			rows = append(rows, billing.Row{valueAt(raw, costIdx)})
			continue
		}
		rows = append(rows, billing.Row{valueAt(raw, costIdx), valueAt(raw, idIdx), valueAt(raw, typeIdx)})
	}
	return rows
}

func columnIndex(columns []*armcostmanagement.QueryColumn, names ...string) int {
	for _, name := range names {
		for i, col := range columns {
			if col != nil && col.Name != nil && strings.EqualFold(*col.Name, name) {
				return i
			}
		}
	}
	return -1
}

func valueAt(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}
