package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
)

const resourcesAPIVersion = "2021-04-01"

type resourceClient interface {
	GetByID(
		ctx context.Context,
		resourceID string,
		apiVersion string,
		options *armresources.ClientGetByIDOptions,
	) (armresources.ClientGetByIDResponse, error)
}

type tagLookup struct {
	client resourceClient
}

func NewTagLookup(client resourceClient) billing.TagLookup {
	return &tagLookup{client: client}
}

func (l *tagLookup) LookupTags(ctx context.Context, resourceID string) (map[string]string, error) {
	if resourceID == "" || !strings.Contains(resourceID, "/") {
		return nil, fmt.Errorf("%w: %q", billing.ErrUnsupportedResource, resourceID)
	}

	resp, err := l.client.GetByID(ctx, strings.TrimPrefix(resourceID, "/"), resourcesAPIVersion, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get Azure resource %s: %w", resourceID, err)
	}

	tags := make(map[string]string, len(resp.Tags))
	for key, value := range resp.Tags {
		if value != nil {
			tags[key] = *value
		}
	}
	return tags, nil
}
