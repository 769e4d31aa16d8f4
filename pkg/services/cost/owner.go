package cost

import (
	"context"
	"strings"
	"time"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// OwnerFromTags returns the value of the highest priority owner tag.
func OwnerFromTags(tags map[string]string) (string, bool) {
	for _, key := range domain.OwnerTagKeys {
		if value := strings.TrimSpace(tags[key]); value != "" {
			return value, true
		}
	}
	return "", false
}

// Resolver maps resources to owners using their tags.
type Resolver struct {
	tags        billing.TagLookup
	concurrency int
	timeout     time.Duration
}

func NewResolver(tags billing.TagLookup, concurrency int, timeout time.Duration) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{
		tags:        tags,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Resolve returns the owner of a resource, or Unknown when it cannot be determined.
func (r *Resolver) Resolve(ctx context.Context, resourceID string) string {
	logger := zerolog.Ctx(ctx).With().Str("resource_id", resourceID).Logger()

	if r.tags == nil {
		return domain.UnknownOwner
	}

	lookupCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tags, err := r.tags.LookupTags(lookupCtx, resourceID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to look up resource tags")
		return domain.UnknownOwner
	}

	owner, ok := OwnerFromTags(tags)
	if !ok {
		logger.Debug().Int("tags", len(tags)).Msg("no owner tag on resource")
		return domain.UnknownOwner
	}
	return owner
}

// ResolveAll sets the owner of every record in place.
func (r *Resolver) ResolveAll(ctx context.Context, records []domain.ResourceCost) {
	if r.concurrency == 1 || len(records) < 2 {
		for i := range records {
			records[i].Owner = r.Resolve(ctx, records[i].ResourceID)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i := range records {
		g.Go(func() error {
			records[i].Owner = r.Resolve(ctx, records[i].ResourceID)
			return nil
		})
	}
	_ = g.Wait()
}
