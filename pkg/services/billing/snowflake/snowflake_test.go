package snowflake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	sqlstore "github.com/de-tools/cost-monitor/pkg/store/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid profile", func(t *testing.T) {
		// Given
		path := filepath.Join(dir, "snowflake.yaml")
		content := `account: "xy12345.eu-west-1"
user: "monitor"
password: "secret"
warehouse: "COMPUTE_WH"
role: "ACCOUNTADMIN"`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When
		cfg, err := LoadConfig(path)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "xy12345.eu-west-1", cfg.Account)
		assert.Equal(t, "monitor", cfg.User)
		assert.Equal(t, "COMPUTE_WH", cfg.Warehouse)
		assert.Equal(t, "ACCOUNTADMIN", cfg.Role)
	})

	t.Run("missing account", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`user: "monitor"`), 0o600))

		_, err := LoadConfig(path)

		assert.ErrorIs(t, err, config.ErrMissingSetting)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestTagLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	lookup := NewTagLookup(db)

	t.Run("canonical owner keys", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(tagReferencesQuery)).
			WithArgs("WAREHOUSE", "ETL_WH").
			WillReturnRows(sqlmock.NewRows([]string{"TAG_NAME", "TAG_VALUE"}).
				AddRow("CREATEDBY", "alice").
				AddRow("COST_CENTER", "42"))

		tags, err := lookup.LookupTags(context.Background(), "warehouses/ETL_WH")

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"CreatedBy": "alice", "COST_CENTER": "42"}, tags)
	})

	t.Run("query failure", func(t *testing.T) {
		queryErr := errors.New("insufficient privileges")
		mock.ExpectQuery(regexp.QuoteMeta(tagReferencesQuery)).WillReturnError(queryErr)

		_, err := lookup.LookupTags(context.Background(), "warehouses/BI_WH")

		assert.ErrorIs(t, err, queryErr)
	})

	t.Run("unsupported resource", func(t *testing.T) {
		_, err := lookup.LookupTags(context.Background(), domain.UnknownOwner)
		assert.ErrorIs(t, err, billing.ErrUnsupportedResource)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingSource_CreditPrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := dialect(3)
	period := domain.TimePeriod{
		Start: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 14, 23, 59, 59, 0, time.UTC),
	}
	mock.ExpectQuery(regexp.QuoteMeta(d.ResourceQuery)).
		WithArgs(period.Start, period.End).
		WillReturnRows(sqlmock.NewRows([]string{"resource_id", "resource_type", "quantity", "unit", "rate", "currency"}).
			AddRow("warehouses/ETL_WH", "warehouse", 12.0, "credits", 1.0, "USD"))

	rows, err := sqlstore.NewBillingSource(db, "snowflake", d).QueryCost(context.Background(), billing.ResourceQuery(period))

	require.NoError(t, err)
	assert.Equal(t, []billing.Row{{36.0, "warehouses/ETL_WH", "warehouse"}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
