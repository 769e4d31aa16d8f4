package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCostExplorer struct {
	mock.Mock
}

func (m *mockCostExplorer) GetCostAndUsage(
	ctx context.Context,
	params *costexplorer.GetCostAndUsageInput,
	_ ...func(*costexplorer.Options),
) (*costexplorer.GetCostAndUsageOutput, error) {
	args := m.Called(ctx, awssdk.ToString(params.NextPageToken))
	out, _ := args.Get(0).(*costexplorer.GetCostAndUsageOutput)
	return out, args.Error(1)
}

func (m *mockCostExplorer) GetCostAndUsageWithResources(
	ctx context.Context,
	params *costexplorer.GetCostAndUsageWithResourcesInput,
	_ ...func(*costexplorer.Options),
) (*costexplorer.GetCostAndUsageWithResourcesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*costexplorer.GetCostAndUsageWithResourcesOutput)
	return out, args.Error(1)
}

func cost(amount string) map[string]types.MetricValue {
	return map[string]types.MetricValue{"UnblendedCost": {Amount: awssdk.String(amount), Unit: awssdk.String("USD")}}
}

var yesterday = domain.TimePeriod{
	Start: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, time.March, 14, 23, 59, 59, 999999999, time.UTC),
}

func TestDateInterval(t *testing.T) {
	interval := dateInterval(billing.DailyTotalQuery(yesterday))
	assert.Equal(t, "2024-03-14", *interval.Start)
	assert.Equal(t, "2024-03-15", *interval.End)

	february := domain.TimePeriod{
		Start: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
	}
	interval = dateInterval(billing.ResourceQuery(february))
	assert.Equal(t, "2024-03-01", *interval.End)
}

func TestSource_DailyCosts(t *testing.T) {
	client := new(mockCostExplorer)
	client.On("GetCostAndUsage", mock.Anything, "").Return(&costexplorer.GetCostAndUsageOutput{
		ResultsByTime: []types.ResultByTime{
			{TimePeriod: &types.DateInterval{Start: awssdk.String("2024-03-14")}, Total: cost("80.25")},
		},
		NextPageToken: awssdk.String("page-2"),
	}, nil)
	client.On("GetCostAndUsage", mock.Anything, "page-2").Return(&costexplorer.GetCostAndUsageOutput{
		ResultsByTime: []types.ResultByTime{
			{TimePeriod: &types.DateInterval{Start: awssdk.String("2024-03-14")}, Total: cost("-1.5")},
		},
	}, nil)

	rows, err := NewSource(client).QueryCost(context.Background(), billing.DailyTotalQuery(yesterday))

	require.NoError(t, err)
	assert.Equal(t, []billing.Row{{80.25, "2024-03-14"}, {-1.5, "2024-03-14"}}, rows)
	client.AssertExpectations(t)
}

func TestSource_ResourceCosts(t *testing.T) {
	client := new(mockCostExplorer)
	client.On("GetCostAndUsageWithResources", mock.Anything, mock.MatchedBy(func(in *costexplorer.GetCostAndUsageWithResourcesInput) bool {
		return in.Granularity == types.GranularityMonthly &&
			len(in.GroupBy) == 2 &&
			awssdk.ToString(in.GroupBy[0].Key) == "RESOURCE_ID" &&
			in.Filter != nil
	})).Return(&costexplorer.GetCostAndUsageWithResourcesOutput{
		ResultsByTime: []types.ResultByTime{
			{Groups: []types.Group{
				{Keys: []string{"i-0abc", "Amazon Elastic Compute Cloud - Compute"}, Metrics: cost("10")},
				{Keys: []string{"arn:aws:s3:::logs", "Amazon Simple Storage Service"}, Metrics: cost("2.5")},
			}},
			{Groups: []types.Group{
				{Keys: []string{"i-0abc", "Amazon Elastic Compute Cloud - Compute"}, Metrics: cost("5")},
			}},
		},
	}, nil)

	rows, err := NewSource(client).QueryCost(context.Background(), billing.ResourceQuery(yesterday))

	require.NoError(t, err)
	assert.Equal(t, []billing.Row{
		{15.0, "i-0abc", "Amazon Elastic Compute Cloud - Compute"},
		{2.5, "arn:aws:s3:::logs", "Amazon Simple Storage Service"},
	}, rows)
}

func TestSource_Errors(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		client := new(mockCostExplorer)
		apiErr := errors.New("AccessDeniedException")
		client.On("GetCostAndUsage", mock.Anything, mock.Anything).Return(nil, apiErr)

		_, err := NewSource(client).QueryCost(context.Background(), billing.DailyTotalQuery(yesterday))

		assert.ErrorIs(t, err, apiErr)
	})

	t.Run("invalid amount", func(t *testing.T) {
		client := new(mockCostExplorer)
		client.On("GetCostAndUsage", mock.Anything, mock.Anything).Return(&costexplorer.GetCostAndUsageOutput{
			ResultsByTime: []types.ResultByTime{{Total: cost("n/a")}},
		}, nil)

		_, err := NewSource(client).QueryCost(context.Background(), billing.DailyTotalQuery(yesterday))

		assert.Error(t, err)
	})
}

type mockEC2 struct{ mock.Mock }

func (m *mockEC2) DescribeTags(ctx context.Context, params *ec2.DescribeTagsInput, _ ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error) {
	args := m.Called(ctx, params.Filters[0].Values[0])
	out, _ := args.Get(0).(*ec2.DescribeTagsOutput)
	return out, args.Error(1)
}

type mockRDS struct{ mock.Mock }

func (m *mockRDS) ListTagsForResource(
	ctx context.Context,
	params *rds.ListTagsForResourceInput,
	_ ...func(*rds.Options),
) (*rds.ListTagsForResourceOutput, error) {
	args := m.Called(ctx, awssdk.ToString(params.ResourceName))
	out, _ := args.Get(0).(*rds.ListTagsForResourceOutput)
	return out, args.Error(1)
}

type mockS3 struct{ mock.Mock }

func (m *mockS3) GetBucketTagging(ctx context.Context, params *s3.GetBucketTaggingInput, _ ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error) {
	args := m.Called(ctx, awssdk.ToString(params.Bucket))
	out, _ := args.Get(0).(*s3.GetBucketTaggingOutput)
	return out, args.Error(1)
}

func TestTagLookup(t *testing.T) {
	ctx := context.Background()
	ec2Client, rdsClient, s3Client := new(mockEC2), new(mockRDS), new(mockS3)
	lookup := NewTagLookup(ec2Client, rdsClient, s3Client)

	ec2Client.On("DescribeTags", mock.Anything, "i-0abc").Return(&ec2.DescribeTagsOutput{
		Tags: []ec2types.TagDescription{{Key: awssdk.String("CreatedBy"), Value: awssdk.String("alice")}},
	}, nil)
	rdsClient.On("ListTagsForResource", mock.Anything, "arn:aws:rds:us-east-1:123:db:orders").Return(&rds.ListTagsForResourceOutput{
		TagList: []rdstypes.Tag{{Key: awssdk.String("Owner"), Value: awssdk.String("bob")}},
	}, nil)
	s3Client.On("GetBucketTagging", mock.Anything, "logs").Return(&s3.GetBucketTaggingOutput{
		TagSet: []s3types.Tag{{Key: awssdk.String("creator"), Value: awssdk.String("carol")}},
	}, nil)

	tests := []struct {
		name     string
		id       string
		expected map[string]string
	}{
		{name: "ec2 instance id", id: "i-0abc", expected: map[string]string{"CreatedBy": "alice"}},
		{name: "ec2 arn", id: "arn:aws:ec2:us-east-1:123:instance/i-0abc", expected: map[string]string{"CreatedBy": "alice"}},
		{name: "rds arn", id: "arn:aws:rds:us-east-1:123:db:orders", expected: map[string]string{"Owner": "bob"}},
		{name: "s3 arn", id: "arn:aws:s3:::logs", expected: map[string]string{"creator": "carol"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := lookup.LookupTags(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tags)
		})
	}

	t.Run("unsupported resource", func(t *testing.T) {
		_, err := lookup.LookupTags(ctx, "arn:aws:lambda:us-east-1:123:function:etl")
		assert.ErrorIs(t, err, billing.ErrUnsupportedResource)
	})

	t.Run("lookup failure", func(t *testing.T) {
		s3Client.On("GetBucketTagging", mock.Anything, "untagged").Return(nil, errors.New("NoSuchTagSet"))
		_, err := lookup.LookupTags(ctx, "arn:aws:s3:::untagged")
		assert.Error(t, err)
	})
}
