package aws

import (
	"context"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

// CloudWatch implements inventory.MetricSource on GetMetricStatistics.
type CloudWatch struct {
	cfg awssdk.Config
}

func NewCloudWatch(cfg awssdk.Config) *CloudWatch {
	return &CloudWatch{cfg: cfg}
}

func (c *CloudWatch) Query(ctx context.Context, region string, q inventory.MetricQuery) (float64, bool, error) {
	client := cloudwatch.NewFromConfig(c.cfg, func(o *cloudwatch.Options) { o.Region = region })

	dims := make([]types.Dimension, 0, len(q.Dimensions))
	for name, value := range q.Dimensions {
		dims = append(dims, types.Dimension{
			Name:  awssdk.String(name),
			Value: awssdk.String(value),
		})
	}

	stat := types.StatisticSum
	if q.Stat == inventory.StatAverage {
		stat = types.StatisticAverage
	}

	end := time.Now()
	resp, err := client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  awssdk.String(q.Namespace),
		MetricName: awssdk.String(q.MetricName),
		Dimensions: dims,
		StartTime:  awssdk.Time(end.Add(-q.Window)),
		EndTime:    awssdk.Time(end),
		Period:     awssdk.Int32(86400),
		Statistics: []types.Statistic{stat},
	})
	if err != nil {
		return 0, false, inventory.Classify("GetMetricStatistics", region, err)
	}
	if len(resp.Datapoints) == 0 {
		return 0, false, nil
	}

	if stat == types.StatisticAverage {
		// Take the newest datapoint for gauges like bucket size.
		latest := resp.Datapoints[0]
		for _, dp := range resp.Datapoints[1:] {
			if dp.Timestamp != nil && latest.Timestamp != nil && dp.Timestamp.After(*latest.Timestamp) {
				latest = dp
			}
		}
		return awssdk.ToFloat64(latest.Average), true, nil
	}

	var total float64
	for _, dp := range resp.Datapoints {
		total += awssdk.ToFloat64(dp.Sum)
	}
	return total, true, nil
}
