package snowflake

import (
	"github.com/de-tools/cost-monitor/pkg/store/sql"
)

const meteringHistory = `
		FROM SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSE_METERING_HISTORY
		WHERE START_TIME >= ? AND START_TIME <= ?`

func dialect(creditPrice float64) sql.Dialect {
	return sql.Dialect{
		TotalQuery: `
		SELECT
			SUM(CREDITS_USED) AS cost,
			TO_VARCHAR(TO_DATE(START_TIME)) AS day` + meteringHistory + `
		GROUP BY 2
		ORDER BY 2`,
		ResourceQuery: `
		SELECT
			'warehouses/' || WAREHOUSE_NAME AS resource_id,
			'warehouse' AS resource_type,
			SUM(CREDITS_USED) AS quantity,
			'credits' AS unit,
			1 AS rate,
			'USD' AS currency` + meteringHistory + `
		GROUP BY WAREHOUSE_NAME`,
		Multiplier: creditPrice,
	}
}

const tagReferencesQuery = `
	SELECT TAG_NAME, TAG_VALUE
	FROM SNOWFLAKE.ACCOUNT_USAGE.TAG_REFERENCES
	WHERE DOMAIN = ? AND OBJECT_NAME = ? AND OBJECT_DELETED IS NULL`
