package collectors

import (
	"context"
	"strconv"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/rs/zerolog"
)

const (
	// First 5 GB of standard storage are free tier.
	objectStorageFreeGB = 5.0
	// Buckets below a megabyte are noise and skipped entirely.
	objectStorageMinGB = 0.001

	standardStorageClass = "Standard"
)

type ObjectStorageAPI interface {
	ListBuckets(ctx context.Context) ([]inventory.Bucket, error)
}

// ObjectStorage prices buckets on measured standard storage. Bucket listing
// is account-global, so the collector is pinned to a single region and the
// records carry each bucket's own region.
type ObjectStorage struct {
	api    ObjectStorageAPI
	pricer Pricer
}

func NewObjectStorage(api ObjectStorageAPI, pricer Pricer) *ObjectStorage {
	return &ObjectStorage{api: api, pricer: pricer}
}

func (o *ObjectStorage) Kind() domain.Kind { return domain.KindObjectStorage }
func (o *ObjectStorage) Regions() []string { return []string{"us-east-1"} }

func (o *ObjectStorage) Collect(ctx context.Context, _ string) ([]domain.ResourceRecord, error) {
	buckets, err := o.api.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, bucket := range buckets {
		if bucket.SizeGB < objectStorageMinGB {
			continue
		}

		perGB, err := o.pricer.Resolve(ctx, domain.KindObjectStorage, standardStorageClass, bucket.Region)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("bucket", bucket.Name).
				Msg("no price for bucket storage, recording at zero")
			perGB = 0
		}

		billableGB := bucket.SizeGB - objectStorageFreeGB
		if billableGB < 0 {
			billableGB = 0
		}
		hourly := monthlyToHourly(billableGB * perGB)

		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindObjectStorage,
			ResourceID: bucket.Name,
			Region:     bucket.Region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{
				domain.AttrSizeGB:       strconv.FormatFloat(bucket.SizeGB, 'f', 3, 64),
				domain.AttrStorageClass: standardStorageClass,
			},
		})
	}
	return out, nil
}
