package domain

// UnknownOwner is the owner key for resources whose creator cannot be resolved.
const UnknownOwner = "Unknown"

// OwnerTagKeys lists the tag keys probed for a resource owner, highest priority first.
var OwnerTagKeys = []string{"CreatedBy", "createdBy", "Owner", "owner", "Creator", "creator"}

// ResourceCost is the billed cost of a single resource over a period.
type ResourceCost struct {
	ResourceID   string  // /subscriptions/<id>/resourceGroups/<rg>/providers/Microsoft.Compute/virtualMachines/vm1
	ResourceName string  // vm1
	ResourceType string  // microsoft.compute/virtualmachines
	Cost         float64 // 12.5
	Owner        string  // alice@example.com, empty until resolved
}

// OwnerGroup collects the resources attributed to one owner.
type OwnerGroup struct {
	Owner         string
	TotalCost     float64
	ResourceCount int
	Resources     []ResourceCost // most expensive first
}

// Add appends a resource to the group and updates its totals.
func (g *OwnerGroup) Add(rc ResourceCost) {
	g.Resources = append(g.Resources, rc)
	g.TotalCost += rc.Cost
	g.ResourceCount = len(g.Resources)
}
