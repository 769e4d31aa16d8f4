package sql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	totalQuery    = "SELECT SUM(cost) AS cost, day FROM usage WHERE start >= ? AND start <= ? GROUP BY day"
	resourceQuery = "SELECT resource_id, resource_type, quantity, unit, rate, currency FROM usage WHERE start >= ? AND start <= ?"
)

var period = domain.TimePeriod{
	Start: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, time.March, 14, 23, 59, 59, 0, time.UTC),
}

func TestUsageSource_Totals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(totalQuery)).
		WithArgs(period.Start, period.End).
		WillReturnRows(sqlmock.NewRows([]string{"cost", "day"}).
			AddRow(10.0, "2024-03-14").
			AddRow(nil, "2024-03-14"))

	source := NewBillingSource(db, "test", Dialect{TotalQuery: totalQuery, ResourceQuery: resourceQuery, Multiplier: 3})
	rows, err := source.QueryCost(context.Background(), billing.DailyTotalQuery(period))

	require.NoError(t, err)
	assert.Equal(t, []billing.Row{{30.0, "2024-03-14"}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageSource_Resources(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(resourceQuery)).
		WithArgs(period.Start, period.End).
		WillReturnRows(sqlmock.NewRows([]string{"resource_id", "resource_type", "quantity", "unit", "rate", "currency"}).
			AddRow("clusters/0314-abc", "JOBS", 4.0, "DBU", 0.5, "USD").
			AddRow("warehouses/wh1", "SQL", 2.0, "DBU", 0.7, "USD"))

	source := NewBillingSource(db, "test", Dialect{TotalQuery: totalQuery, ResourceQuery: resourceQuery})
	rows, err := source.QueryCost(context.Background(), billing.ResourceQuery(period))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, billing.Row{2.0, "clusters/0314-abc", "JOBS"}, rows[0])
	assert.Equal(t, "warehouses/wh1", rows[1][1])
	assert.InDelta(t, 1.4, rows[1][0].(float64), 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageSource_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	queryErr := errors.New("warehouse is stopped")
	mock.ExpectQuery(regexp.QuoteMeta(resourceQuery)).WillReturnError(queryErr)

	source := NewBillingSource(db, "test", Dialect{TotalQuery: totalQuery, ResourceQuery: resourceQuery})
	_, err = source.QueryCost(context.Background(), billing.ResourceQuery(period))

	assert.ErrorIs(t, err, queryErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
