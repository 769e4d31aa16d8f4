package cost

import (
	"testing"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestOwnerFromTags(t *testing.T) {
	tests := []struct {
		name  string
		tags  map[string]string
		owner string
		found bool
	}{
		{
			name:  "CreatedBy wins over every other key",
			tags:  map[string]string{"owner": "x", "Creator": "z", "CreatedBy": "y"},
			owner: "y",
			found: true,
		},
		{
			name:  "createdBy wins over Owner",
			tags:  map[string]string{"Owner": "b", "createdBy": "a"},
			owner: "a",
			found: true,
		},
		{
			name:  "Owner wins over owner",
			tags:  map[string]string{"owner": "lower", "Owner": "upper"},
			owner: "upper",
			found: true,
		},
		{
			name:  "creator is the last resort",
			tags:  map[string]string{"creator": "c", "env": "prod"},
			owner: "c",
			found: true,
		},
		{
			name:  "blank value is skipped",
			tags:  map[string]string{"CreatedBy": "  ", "Owner": "b"},
			owner: "b",
			found: true,
		},
		{
			name: "keys are case sensitive",
			tags: map[string]string{"OWNER": "x", "created_by": "y"},
		},
		{
			name: "no tags",
			tags: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, found := OwnerFromTags(tt.tags)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.owner, owner)
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("nil lookup", func(t *testing.T) {
		assert.Equal(t, domain.UnknownOwner, NewResolver(nil, 1, 0).Resolve(testContext(t), "vm1"))
	})

	t.Run("tag value", func(t *testing.T) {
		tags := newFakeTags()
		tags.tags["vm1"] = map[string]string{"Creator": "carol"}
		assert.Equal(t, "carol", NewResolver(tags, 1, 0).Resolve(testContext(t), "vm1"))
	})
}
