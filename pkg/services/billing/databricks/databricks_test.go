package databricks

import (
	"context"
	"errors"
	"testing"

	"github.com/databricks/databricks-sdk-go/service/compute"
	dbsqlapi "github.com/databricks/databricks-sdk-go/service/sql"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClusters struct{ mock.Mock }

func (m *mockClusters) GetByClusterId(ctx context.Context, clusterId string) (*compute.ClusterDetails, error) {
	args := m.Called(ctx, clusterId)
	details, _ := args.Get(0).(*compute.ClusterDetails)
	return details, args.Error(1)
}

type mockWarehouses struct{ mock.Mock }

func (m *mockWarehouses) GetById(ctx context.Context, id string) (*dbsqlapi.GetWarehouseResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dbsqlapi.GetWarehouseResponse)
	return resp, args.Error(1)
}

func TestTagLookup(t *testing.T) {
	ctx := context.Background()
	clusters, warehouses := new(mockClusters), new(mockWarehouses)
	lookup := NewTagLookup(clusters, warehouses)

	t.Run("cluster creator becomes CreatedBy", func(t *testing.T) {
		clusters.On("GetByClusterId", mock.Anything, "0314-abc").Return(&compute.ClusterDetails{
			CreatorUserName: "alice@example.com",
			CustomTags:      map[string]string{"team": "data"},
		}, nil)

		tags, err := lookup.LookupTags(ctx, "clusters/0314-abc")

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"CreatedBy": "alice@example.com", "team": "data"}, tags)
	})

	t.Run("explicit CreatedBy tag is kept", func(t *testing.T) {
		clusters.On("GetByClusterId", mock.Anything, "0315-def").Return(&compute.ClusterDetails{
			CreatorUserName: "ci-bot@example.com",
			CustomTags:      map[string]string{"CreatedBy": "carol"},
		}, nil)

		tags, err := lookup.LookupTags(ctx, "clusters/0315-def")

		require.NoError(t, err)
		assert.Equal(t, "carol", tags["CreatedBy"])
	})

	t.Run("warehouse custom tags and creator", func(t *testing.T) {
		warehouses.On("GetById", mock.Anything, "wh1").Return(&dbsqlapi.GetWarehouseResponse{
			CreatorName: "dave@example.com",
			Tags:        &dbsqlapi.EndpointTags{CustomTags: []dbsqlapi.EndpointTagPair{{Key: "Owner", Value: "bob"}}},
		}, nil)

		tags, err := lookup.LookupTags(ctx, "warehouses/wh1")

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Owner": "bob", "CreatedBy": "dave@example.com"}, tags)
	})

	t.Run("api failure", func(t *testing.T) {
		clusters.On("GetByClusterId", mock.Anything, "gone").Return(nil, errors.New("RESOURCE_DOES_NOT_EXIST"))

		_, err := lookup.LookupTags(ctx, "clusters/gone")

		assert.Error(t, err)
	})

	t.Run("unsupported resource", func(t *testing.T) {
		for _, id := range []string{"jobs/1", "Unknown", "clusters/"} {
			_, err := lookup.LookupTags(ctx, id)
			assert.ErrorIs(t, err, billing.ErrUnsupportedResource, id)
		}
	})
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"token:dapi1@adb-1.azuredatabricks.net:443/sql/1.0/warehouses/wh1",
		dsn("https://adb-1.azuredatabricks.net/", "dapi1", "/sql/1.0/warehouses/wh1"),
	)
	assert.Equal(t,
		"token:dapi1@example.com:8443/sql",
		dsn("example.com:8443", "dapi1", "/sql"),
	)
}

func TestDialect(t *testing.T) {
	assert.Contains(t, dialect.TotalQuery, "system.billing.usage")
	assert.Contains(t, dialect.ResourceQuery, "concat('clusters/', u.usage_metadata.cluster_id)")
	assert.Equal(t, 2, countPlaceholders(dialect.ResourceQuery))
	assert.Equal(t, 2, countPlaceholders(dialect.TotalQuery))
}

func countPlaceholders(query string) int {
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
		}
	}
	return n
}
