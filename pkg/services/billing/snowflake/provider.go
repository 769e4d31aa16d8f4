package snowflake

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	sqlstore "github.com/de-tools/cost-monitor/pkg/store/sql"
	"github.com/rs/zerolog"
	"github.com/snowflakedb/gosnowflake"
)

// ProviderFactory prices warehouse credits from the account usage views.
func ProviderFactory(ctx context.Context, cfg *config.Config) (*billing.Provider, error) {
	sfCfg, err := LoadConfig(cfg.Snowflake.ProfilePath)
	if err != nil {
		return nil, err
	}

	dsn, err := gosnowflake.DSN(sfCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("account", sfCfg.Account).
		Float64("credit_price", cfg.Snowflake.CreditPrice).
		Msg("Snowflake provider configured")

	return &billing.Provider{
		Name:   domain.ProviderSnowflake,
		Source: sqlstore.NewBillingSource(db, "snowflake", dialect(cfg.Snowflake.CreditPrice)),
		Tags:   NewTagLookup(db),
		Close:  db.Close,
	}, nil
}
