package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	"github.com/rs/zerolog"
)

// ProviderFactory builds the Azure cost management source and resource tag lookup.
func ProviderFactory(ctx context.Context, cfg *config.Config) (*billing.Provider, error) {
	settings, err := LoadSettings(cfg.Azure)
	if err != nil {
		return nil, err
	}

	cred, err := settings.Credential()
	if err != nil {
		return nil, err
	}

	costFactory, err := armcostmanagement.NewClientFactory(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cost management client: %w", err)
	}
	resources, err := armresources.NewClient(settings.SubscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resources client: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("scope", settings.Scope()).Msg("Azure provider configured")

	return &billing.Provider{
		Name:   domain.ProviderAzure,
		Source: NewSource(costFactory.NewQueryClient(), settings.Scope()),
		Tags:   NewTagLookup(resources),
	}, nil
}
