package databricks

import (
	"github.com/de-tools/cost-monitor/pkg/store/sql"
)

const priceJoin = `
		FROM system.billing.usage AS u
		JOIN system.billing.list_prices AS p
			ON u.sku_name = p.sku_name
			AND u.usage_end_time >= p.price_start_time
			AND (p.price_end_time IS NULL OR u.usage_end_time < p.price_end_time)
		WHERE u.usage_start_time >= ? AND u.usage_start_time <= ?`

var dialect = sql.Dialect{
	TotalQuery: `
		SELECT
			SUM(u.usage_quantity * p.pricing.effective_list.default) AS cost,
			CAST(u.usage_date AS STRING) AS day` + priceJoin + `
		GROUP BY u.usage_date
		ORDER BY u.usage_date`,
	ResourceQuery: `
		SELECT
			CASE
				WHEN u.usage_metadata.cluster_id IS NOT NULL THEN concat('clusters/', u.usage_metadata.cluster_id)
				ELSE concat('warehouses/', u.usage_metadata.warehouse_id)
			END AS resource_id,
			u.billing_origin_product AS resource_type,
			SUM(u.usage_quantity) AS quantity,
			u.usage_unit AS unit,
			p.pricing.effective_list.default AS rate,
			p.currency_code AS currency` + priceJoin + `
			AND (u.usage_metadata.cluster_id IS NOT NULL OR u.usage_metadata.warehouse_id IS NOT NULL)
		GROUP BY 1, 2, 4, 5, 6`,
}
