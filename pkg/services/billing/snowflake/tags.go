package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/rs/zerolog"
)

type tagLookup struct {
	db *sql.DB
}

func NewTagLookup(db *sql.DB) billing.TagLookup {
	return &tagLookup{db: db}
}

func (l *tagLookup) LookupTags(ctx context.Context, resourceID string) (map[string]string, error) {
	logger := zerolog.Ctx(ctx)

	kind, name, ok := strings.Cut(resourceID, "/")
	if !ok || kind != "warehouses" || name == "" {
		return nil, fmt.Errorf("%w: %q", billing.ErrUnsupportedResource, resourceID)
	}

	rows, err := l.db.QueryContext(ctx, tagReferencesQuery, "WAREHOUSE", name)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags of warehouse %s: %w", name, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close tag query rows")
		}
	}(rows)

	tags := map[string]string{}
	for rows.Next() {
		var key, value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan tag of warehouse %s: %w", name, err)
		}
		if !key.Valid {
			continue
		}
		canonical := canonicalKey(key.String)
		if _, exists := tags[canonical]; !exists {
			tags[canonical] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tags of warehouse %s: %w", name, err)
	}
	return tags, nil
}

// canonicalKey maps upper-case Snowflake identifiers such as CREATEDBY onto the owner tag keys.
func canonicalKey(name string) string {
	for _, key := range domain.OwnerTagKeys {
		if strings.EqualFold(key, name) {
			return key
		}
	}
	return name
}
