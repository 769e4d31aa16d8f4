package cost

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestNormalize_ResourceRows(t *testing.T) {
	ctx := testContext(t)
	rows := []billing.Row{
		{12.5, "/subscriptions/s1/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/vm1", "microsoft.compute/virtualmachines"},
		{json.Number("3.25"), "storage1", "microsoft.storage/storageaccounts", "extra"},
		{int64(7), nil, ""},
	}

	records := Normalize(ctx, rows, ResourceRow)

	require.Len(t, records, 3)
	assert.Equal(t, domain.ResourceCost{
		ResourceID:   "/subscriptions/s1/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/vm1",
		ResourceName: "vm1",
		ResourceType: "microsoft.compute/virtualmachines",
		Cost:         12.5,
	}, records[0])
	assert.Equal(t, "storage1", records[1].ResourceName)
	assert.Equal(t, 3.25, records[1].Cost)
	assert.Equal(t, domain.UnknownOwner, records[2].ResourceID)
	assert.Equal(t, domain.UnknownOwner, records[2].ResourceName)
	assert.Equal(t, domain.UnknownOwner, records[2].ResourceType)
	for _, rc := range records {
		assert.Empty(t, rc.Owner)
	}
}

func TestNormalize_RejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  billing.Row
	}{
		{name: "empty row", row: billing.Row{}},
		{name: "too short", row: billing.Row{10.0, "id"}},
		{name: "zero cost", row: billing.Row{0.0, "id", "type"}},
		{name: "nil cost", row: billing.Row{nil, "id", "type"}},
		{name: "non numeric cost", row: billing.Row{"abc", "id", "type"}},
		{name: "unsupported cost type", row: billing.Row{true, "id", "type"}},
		{name: "negative cost", row: billing.Row{-5.0, "id", "type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Normalize(testContext(t), []billing.Row{tt.row}, ResourceRow)
			assert.Empty(t, records)
		})
	}
}

func TestNormalize_PreservesOrder(t *testing.T) {
	rows := []billing.Row{
		{1.0, "a", "t"},
		{0.0, "skipped", "t"},
		{3.0, "b", "t"},
		{2.0, "c", "t"},
	}

	records := Normalize(testContext(t), rows, ResourceRow)

	ids := make([]string, 0, len(records))
	for _, rc := range records {
		ids = append(ids, rc.ResourceID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestNormalize_TotalRows(t *testing.T) {
	rows := []billing.Row{
		{42.0},
		{"9.5", "rg/vm2"},
		{},
		{0},
	}

	records := Normalize(testContext(t), rows, TotalRow)

	require.Len(t, records, 2)
	assert.Equal(t, 42.0, records[0].Cost)
	assert.Equal(t, domain.UnknownOwner, records[0].ResourceID)
	assert.Equal(t, domain.UnknownOwner, records[0].ResourceType)
	assert.Equal(t, "vm2", records[1].ResourceName)
	assert.Equal(t, domain.UnknownOwner, records[1].ResourceType)
}

func TestSumCosts(t *testing.T) {
	rows := []billing.Row{
		{10.0, 20240301},
		{-2.5, 20240301},
		{0.0, 20240301},
		{},
		{"x"},
		{float32(0.5)},
	}

	assert.InDelta(t, 8.0, SumCosts(testContext(t), rows), 1e-9)
	assert.Zero(t, SumCosts(testContext(t), nil))
}

func TestResourceName(t *testing.T) {
	tests := map[string]string{
		"/subscriptions/s/resourceGroups/rg/providers/Microsoft.Web/sites/app1": "app1",
		"plain-name":       "plain-name",
		"clusters/0101-ab": "0101-ab",
		"trailing/":        "",
		"":                 "",
	}

	for id, want := range tests {
		assert.Equal(t, want, ResourceName(id), id)
	}
}
