package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/de-tools/cost-monitor/pkg/services/config"
)

// ProviderFactory builds the Cost Explorer source and the EC2, RDS and S3 tag lookup.
func ProviderFactory(ctx context.Context, cfg *config.Config) (*billing.Provider, error) {
	awsCfg, err := LoadConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}

	return &billing.Provider{
		Name:   domain.ProviderAWS,
		Source: NewSource(costexplorer.NewFromConfig(*awsCfg)),
		Tags: NewTagLookup(
			ec2.NewFromConfig(*awsCfg),
			rds.NewFromConfig(*awsCfg),
			s3.NewFromConfig(*awsCfg),
		),
	}, nil
}
