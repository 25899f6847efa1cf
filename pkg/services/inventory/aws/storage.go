package aws

import (
	"context"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

type ObjectStorage struct {
	client  *s3.Client
	metrics inventory.MetricSource
}

func NewObjectStorage(cfg awssdk.Config, metrics inventory.MetricSource) *ObjectStorage {
	return &ObjectStorage{
		client:  s3.NewFromConfig(cfg),
		metrics: metrics,
	}
}

// ListBuckets returns every bucket in the account with its resolved region
// and measured size. Bucket listing is global; sizes come from the storage
// metric in the bucket's own region and default to zero when unreported.
func (o *ObjectStorage) ListBuckets(ctx context.Context) ([]inventory.Bucket, error) {
	resp, err := o.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, inventory.Classify("ListBuckets", DefaultRegion, err)
	}

	var out []inventory.Bucket
	for _, bucket := range resp.Buckets {
		name := awssdk.ToString(bucket.Name)

		locResp, err := o.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
			Bucket: bucket.Name,
		})
		if err != nil {
			// A bucket we cannot locate is skipped, not fatal; the rest of
			// the account still gets priced.
			continue
		}
		region := string(locResp.LocationConstraint)
		if region == "" {
			region = DefaultRegion
		}

		var sizeGB float64
		if o.metrics != nil {
			bytes, ok, err := o.metrics.Query(ctx, region, inventory.MetricQuery{
				Namespace:  "AWS/S3",
				MetricName: "BucketSizeBytes",
				Dimensions: map[string]string{
					"BucketName":  name,
					"StorageType": "StandardStorage",
				},
				Stat:   inventory.StatAverage,
				Window: 48 * time.Hour,
			})
			if err == nil && ok {
				sizeGB = bytes / (1024 * 1024 * 1024)
			}
		}

		out = append(out, inventory.Bucket{
			Name:   name,
			Region: region,
			SizeGB: sizeGB,
		})
	}
	return out, nil
}
