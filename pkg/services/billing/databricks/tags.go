package databricks

import (
	"context"
	"fmt"
	"strings"

	"github.com/databricks/databricks-sdk-go/service/compute"
	dbsqlapi "github.com/databricks/databricks-sdk-go/service/sql"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
)

// creatorTag exposes the workspace creator when no CreatedBy tag was set explicitly.
const creatorTag = "CreatedBy"

type clusterGetter interface {
	GetByClusterId(ctx context.Context, clusterId string) (*compute.ClusterDetails, error)
}

type warehouseGetter interface {
	GetById(ctx context.Context, id string) (*dbsqlapi.GetWarehouseResponse, error)
}

type tagLookup struct {
	clusters   clusterGetter
	warehouses warehouseGetter
}

func NewTagLookup(clusters clusterGetter, warehouses warehouseGetter) billing.TagLookup {
	return &tagLookup{clusters: clusters, warehouses: warehouses}
}

func (l *tagLookup) LookupTags(ctx context.Context, resourceID string) (map[string]string, error) {
	kind, id, ok := strings.Cut(resourceID, "/")
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %q", billing.ErrUnsupportedResource, resourceID)
	}

	switch kind {
	case "clusters":
		return l.clusterTags(ctx, id)
	case "warehouses":
		return l.warehouseTags(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %q", billing.ErrUnsupportedResource, resourceID)
	}
}

func (l *tagLookup) clusterTags(ctx context.Context, id string) (map[string]string, error) {
	cluster, err := l.clusters.GetByClusterId(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cluster %s: %w", id, err)
	}

	tags := make(map[string]string, len(cluster.CustomTags)+1)
	for key, value := range cluster.CustomTags {
		tags[key] = value
	}
	setCreator(tags, cluster.CreatorUserName)
	return tags, nil
}

func (l *tagLookup) warehouseTags(ctx context.Context, id string) (map[string]string, error) {
	warehouse, err := l.warehouses.GetById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse %s: %w", id, err)
	}

	tags := map[string]string{}
	if warehouse.Tags != nil {
		for _, pair := range warehouse.Tags.CustomTags {
			tags[pair.Key] = pair.Value
		}
	}
	setCreator(tags, warehouse.CreatorName)
	return tags, nil
}

func setCreator(tags map[string]string, creator string) {
	if _, ok := tags[creatorTag]; !ok && creator != "" {
		tags[creatorTag] = creator
	}
}
