package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubFactory(name domain.ProviderType) ProviderFactory {
	return func(_ context.Context, _ *config.Config) (*Provider, error) {
		return &Provider{Name: name}, nil
	}
}

func TestRegistry_Create(t *testing.T) {
	r := NewRegistry(map[string]ProviderFactory{
		"azure": stubFactory(domain.ProviderAzure),
	})

	t.Run("registered provider", func(t *testing.T) {
		p, err := r.Create(context.Background(), "azure", &config.Config{})
		require.NoError(t, err)
		assert.Equal(t, domain.ProviderAzure, p.Name)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := r.Create(context.Background(), "gcp", &config.Config{})
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("factory failure is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		require.NoError(t, r.Register("broken", func(context.Context, *config.Config) (*Provider, error) {
			return nil, boom
		}))
		_, err := r.Create(context.Background(), "broken", &config.Config{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(nil)

	assert.Error(t, r.Register("", stubFactory(domain.ProviderAWS)))
	assert.Error(t, r.Register("aws", nil))
	require.NoError(t, r.Register("aws", stubFactory(domain.ProviderAWS)))
	assert.Error(t, r.Register("aws", stubFactory(domain.ProviderAWS)))
	require.NoError(t, r.Register("azure", stubFactory(domain.ProviderAzure)))

	assert.Equal(t, []string{"aws", "azure"}, r.ListProviders())
}

func TestQueries(t *testing.T) {
	period := domain.TimePeriod{}

	daily := DailyTotalQuery(period)
	assert.Equal(t, GranularityDaily, daily.Granularity)
	assert.False(t, daily.Grouped())

	resources := ResourceQuery(period)
	assert.Equal(t, GranularityNone, resources.Granularity)
	assert.Equal(t, []Dimension{DimensionResourceID, DimensionResourceType}, resources.GroupBy)
	assert.True(t, resources.Grouped())
}

func TestProvider_Shutdown(t *testing.T) {
	var p *Provider
	assert.NoError(t, p.Shutdown())

	closed := false
	p = &Provider{Close: func() error { closed = true; return nil }}
	assert.NoError(t, p.Shutdown())
	assert.True(t, closed)
}
