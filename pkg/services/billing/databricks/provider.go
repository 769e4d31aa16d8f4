package databricks

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/databricks/databricks-sdk-go"
	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	sqlstore "github.com/de-tools/cost-monitor/pkg/store/sql"
	"github.com/rs/zerolog"
)

// ProviderFactory reads system.billing tables over the SQL warehouse and cluster
// and warehouse tags over the workspace API.
func ProviderFactory(ctx context.Context, cfg *config.Config) (*billing.Provider, error) {
	profiles, err := config.LoadDatabricksProfiles(cfg.Databricks.ConfigFile)
	if err != nil {
		return nil, err
	}
	profile, err := profiles.Get(cfg.Databricks.Profile)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("databricks", dsn(profile.Host, profile.Token, cfg.Databricks.HTTPPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open databricks connection: %w", err)
	}

	client, err := databricks.NewWorkspaceClient(&databricks.Config{
		Host:  profile.Host,
		Token: profile.Token,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create workspace client: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("host", profile.Host).
		Str("profile", cfg.Databricks.Profile).
		Msg("Databricks provider configured")

	return &billing.Provider{
		Name:   domain.ProviderDatabricks,
		Source: sqlstore.NewBillingSource(db, "databricks", dialect),
		Tags:   NewTagLookup(client.Clusters, client.Warehouses),
		Close:  db.Close,
	}, nil
}

func dsn(host, token, httpPath string) string {
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	host = strings.TrimSuffix(host, "/")
	if !strings.Contains(host, ":") {
		host += ":443"
	}
	return fmt.Sprintf("token:%s@%s%s", token, host, httpPath)
}
