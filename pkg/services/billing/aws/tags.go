package aws

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
)

type ec2TagsAPI interface {
	DescribeTags(ctx context.Context, params *ec2.DescribeTagsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error)
}

type rdsTagsAPI interface {
	ListTagsForResource(
		ctx context.Context,
		params *rds.ListTagsForResourceInput,
		optFns ...func(*rds.Options),
	) (*rds.ListTagsForResourceOutput, error)
}

type s3TagsAPI interface {
	GetBucketTagging(ctx context.Context, params *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error)
}

type tagLookup struct {
	ec2 ec2TagsAPI
	rds rdsTagsAPI
	s3  s3TagsAPI
}

func NewTagLookup(ec2Client ec2TagsAPI, rdsClient rdsTagsAPI, s3Client s3TagsAPI) billing.TagLookup {
	return &tagLookup{ec2: ec2Client, rds: rdsClient, s3: s3Client}
}

func (l *tagLookup) LookupTags(ctx context.Context, resourceID string) (map[string]string, error) {
	switch {
	case strings.HasPrefix(resourceID, "arn:aws:rds:"):
		return l.rdsTags(ctx, resourceID)
	case strings.HasPrefix(resourceID, "arn:aws:s3:::"):
		return l.s3Tags(ctx, strings.TrimPrefix(resourceID, "arn:aws:s3:::"))
	case strings.HasPrefix(resourceID, "arn:aws:ec2:"):
		return l.ec2Tags(ctx, resourceID[strings.LastIndex(resourceID, "/")+1:])
	case isEC2ID(resourceID):
		return l.ec2Tags(ctx, resourceID)
	default:
		return nil, fmt.Errorf("%w: %q", billing.ErrUnsupportedResource, resourceID)
	}
}

func isEC2ID(id string) bool {
	for _, prefix := range []string{"i-", "vol-", "snap-", "eni-", "ami-"} {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

func (l *tagLookup) ec2Tags(ctx context.Context, id string) (map[string]string, error) {
	tags := map[string]string{}
	input := &ec2.DescribeTagsInput{
		Filters: []ec2types.Filter{
			{Name: awssdk.String("resource-id"), Values: []string{id}},
		},
	}
	for {
		out, err := l.ec2.DescribeTags(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to describe tags of %s: %w", id, err)
		}
		for _, tag := range out.Tags {
			tags[awssdk.ToString(tag.Key)] = awssdk.ToString(tag.Value)
		}
		if awssdk.ToString(out.NextToken) == "" {
			return tags, nil
		}
		input.NextToken = out.NextToken
	}
}

func (l *tagLookup) rdsTags(ctx context.Context, arn string) (map[string]string, error) {
	out, err := l.rds.ListTagsForResource(ctx, &rds.ListTagsForResourceInput{
		ResourceName: awssdk.String(arn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of %s: %w", arn, err)
	}

	tags := make(map[string]string, len(out.TagList))
	for _, tag := range out.TagList {
		tags[awssdk.ToString(tag.Key)] = awssdk.ToString(tag.Value)
	}
	return tags, nil
}

func (l *tagLookup) s3Tags(ctx context.Context, bucket string) (map[string]string, error) {
	out, err := l.s3.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
		Bucket: awssdk.String(bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tagging of bucket %s: %w", bucket, err)
	}

	tags := make(map[string]string, len(out.TagSet))
	for _, tag := range out.TagSet {
		tags[awssdk.ToString(tag.Key)] = awssdk.ToString(tag.Value)
	}
	return tags, nil
}
