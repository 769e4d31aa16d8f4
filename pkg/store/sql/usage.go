package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/cost-monitor/pkg/adapters"
	"github.com/de-tools/cost-monitor/pkg/models/store"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/rs/zerolog"
)

// Dialect holds the billing queries of one warehouse engine.
// Both queries take the period start and end as positional parameters.
type Dialect struct {
	// TotalQuery returns (cost, day) rows.
	TotalQuery string
	// ResourceQuery returns (resource_id, resource_type, quantity, unit, rate, currency) rows.
	ResourceQuery string
	// Multiplier converts query amounts into currency, e.g. a credit price. Zero means 1.
	Multiplier float64
}

type usageSource struct {
	db      *sql.DB
	name    string
	dialect Dialect
}

func NewBillingSource(db *sql.DB, name string, dialect Dialect) billing.Source {
	if dialect.Multiplier == 0 {
		dialect.Multiplier = 1
	}
	return &usageSource{
		db:      db,
		name:    name,
		dialect: dialect,
	}
}

func (s *usageSource) QueryCost(ctx context.Context, query billing.Query) ([]billing.Row, error) {
	if query.Grouped() {
		records, err := s.collectUsage(ctx, query)
		if err != nil {
			return nil, err
		}
		rows := make([]billing.Row, 0, len(records))
		for _, record := range records {
			rows = append(rows, adapters.MapStoreUsageRecordToRow(record))
		}
		return rows, nil
	}
	return s.collectTotals(ctx, query)
}

func (s *usageSource) collectTotals(ctx context.Context, query billing.Query) ([]billing.Row, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, s.dialect.TotalQuery, query.Period.Start, query.Period.End)
	if err != nil {
		return nil, fmt.Errorf("%s total cost query failed: %w", s.name, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close total cost query rows")
		}
	}(rows)

	var result []billing.Row
	for rows.Next() {
		var (
			cost sql.NullFloat64
			day  sql.NullString
		)
		if err := rows.Scan(&cost, &day); err != nil {
			return nil, fmt.Errorf("%s total cost scan failed: %w", s.name, err)
		}
		if !cost.Valid {
			continue
		}
		result = append(result, billing.Row{cost.Float64 * s.dialect.Multiplier, day.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s total cost query failed: %w", s.name, err)
	}
	return result, nil
}

func (s *usageSource) collectUsage(ctx context.Context, query billing.Query) ([]store.UsageRecord, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, s.dialect.ResourceQuery, query.Period.Start, query.Period.End)
	if err != nil {
		return nil, fmt.Errorf("%s usage query failed: %w", s.name, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close usage query rows")
		}
	}(rows)

	var records []store.UsageRecord
	for rows.Next() {
		var (
			id, resourceType, unit, currency sql.NullString
			qty, rate                        sql.NullFloat64
		)
		if err := rows.Scan(&id, &resourceType, &qty, &unit, &rate, &currency); err != nil {
			return nil, fmt.Errorf("%s usage scan failed: %w", s.name, err)
		}

		records = append(records, store.UsageRecord{
			ResourceID:   id.String,
			ResourceType: resourceType.String,
			Quantity:     qty.Float64,
			Unit:         unit.String,
			Rate:         rate.Float64 * s.dialect.Multiplier,
			Currency:     currency.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s usage query failed: %w", s.name, err)
	}
	return records, nil
}
