package collectors

import (
	"context"
	"testing"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucketAPI struct {
	buckets []inventory.Bucket
	err     error
}

func (f *fakeBucketAPI) ListBuckets(context.Context) ([]inventory.Bucket, error) {
	return f.buckets, f.err
}

func TestObjectStorageFreeTierBoundary(t *testing.T) {
	api := &fakeBucketAPI{buckets: []inventory.Bucket{
		{Name: "exactly-free", Region: "us-east-1", SizeGB: 5.0},
		{Name: "half-gb-over", Region: "us-east-1", SizeGB: 5.5},
	}}
	c := NewObjectStorage(api, &fixedPricer{price: 0.023})

	records, err := c.Collect(context.Background(), "us-east-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// 5.0 GB is entirely inside the free tier.
	assert.Zero(t, records[0].HourlyCost)

	// Only the half GB above the free tier is billed.
	wantHourly := 0.5 * 0.023 / 30 / 24
	assert.InDelta(t, wantHourly, records[1].HourlyCost, 1e-12)
	assert.InDelta(t, wantHourly*24, records[1].DailyCost, 1e-12)
}

func TestObjectStorageSkipsTinyBuckets(t *testing.T) {
	api := &fakeBucketAPI{buckets: []inventory.Bucket{
		{Name: "empty", Region: "us-east-1", SizeGB: 0.0005},
		{Name: "real", Region: "eu-west-1", SizeGB: 12},
	}}
	c := NewObjectStorage(api, &fixedPricer{price: 0.023})

	records, err := c.Collect(context.Background(), "us-east-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "real", records[0].ResourceID)
	assert.Equal(t, "eu-west-1", records[0].Region, "records carry the bucket's own region")
}

func TestObjectStorageKindAndRegions(t *testing.T) {
	c := NewObjectStorage(&fakeBucketAPI{}, &fixedPricer{})
	assert.Equal(t, domain.KindObjectStorage, c.Kind())
	assert.Equal(t, []string{"us-east-1"}, c.Regions(), "bucket listing is global")
}
