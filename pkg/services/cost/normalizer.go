package cost

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/rs/zerolog"
)

// RowShape selects how strictly billing rows are validated.
type RowShape int

const (
	// ResourceRow requires [cost, resource_id, resource_type].
	ResourceRow RowShape = iota
	// TotalRow only requires a cost. Missing fields default to Unknown.
	TotalRow
)

// Normalize converts billing rows into resource cost records, preserving row order.
// Malformed rows are skipped.
func Normalize(ctx context.Context, rows []billing.Row, shape RowShape) []domain.ResourceCost {
	logger := zerolog.Ctx(ctx)

	records := make([]domain.ResourceCost, 0, len(rows))
	for i, row := range rows {
		rc, err := normalizeRow(row, shape)
		if err != nil {
			logger.Debug().Err(err).Int("row", i).Msg("skipping billing row")
			continue
		}
		records = append(records, rc)
	}
	return records
}

// SumCosts returns the total of every row carrying a cost. Credits are included.
func SumCosts(ctx context.Context, rows []billing.Row) float64 {
	logger := zerolog.Ctx(ctx)

	var total float64
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cost, err := parseCost(row[0])
		if err != nil {
			logger.Debug().Err(err).Int("row", i).Msg("skipping billing row")
			continue
		}
		total += cost
	}
	return total
}

// ResourceName returns the last path segment of a resource ID.
func ResourceName(resourceID string) string {
	if i := strings.LastIndex(resourceID, "/"); i >= 0 {
		return resourceID[i+1:]
	}
	return resourceID
}

func normalizeRow(row billing.Row, shape RowShape) (domain.ResourceCost, error) {
	if len(row) == 0 {
		return domain.ResourceCost{}, fmt.Errorf("empty row")
	}
	if shape == ResourceRow && len(row) < 3 {
		return domain.ResourceCost{}, fmt.Errorf("expected at least 3 values, got %d", len(row))
	}

	cost, err := parseCost(row[0])
	if err != nil {
		return domain.ResourceCost{}, err
	}
	if cost < 0 {
		return domain.ResourceCost{}, fmt.Errorf("negative cost %v", cost)
	}

	id := field(row, 1)
	return domain.ResourceCost{
		ResourceID:   id,
		ResourceName: ResourceName(id),
		ResourceType: field(row, 2),
		Cost:         cost,
	}, nil
}

func field(row billing.Row, i int) string {
	if i >= len(row) || row[i] == nil {
		return domain.UnknownOwner
	}
	s := fmt.Sprint(row[i])
	if s == "" {
		return domain.UnknownOwner
	}
	return s
}

// parseCost accepts any numeric value. Zero, nil and NaN carry no cost.
func parseCost(v any) (float64, error) {
	var cost float64
	switch c := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing cost")
	case float64:
		cost = c
	case float32:
		cost = float64(c)
	case int:
		cost = float64(c)
	case int32:
		cost = float64(c)
	case int64:
		cost = float64(c)
	case uint:
		cost = float64(c)
	case uint32:
		cost = float64(c)
	case uint64:
		cost = float64(c)
	case json.Number:
		f, err := c.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid cost %q: %w", c, err)
		}
		cost = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid cost %q: %w", c, err)
		}
		cost = f
	default:
		return 0, fmt.Errorf("unsupported cost type %T", v)
	}

	if cost == 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0, fmt.Errorf("no cost in row")
	}
	return cost, nil
}
