package collectors

import (
	"context"
	"strconv"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/rs/zerolog"
)

type BlockStorageAPI interface {
	ListVolumes(ctx context.Context, region string) ([]inventory.Volume, error)
}

// BlockStorage prices in-use volumes. Volumes are billed on provisioned
// size, so the per-GB monthly rate is prorated down to an hourly figure.
type BlockStorage struct {
	api     BlockStorageAPI
	pricer  Pricer
	regions []string
}

func NewBlockStorage(api BlockStorageAPI, pricer Pricer, regions []string) *BlockStorage {
	return &BlockStorage{api: api, pricer: pricer, regions: regions}
}

func (b *BlockStorage) Kind() domain.Kind { return domain.KindBlockStorage }
func (b *BlockStorage) Regions() []string { return b.regions }

func (b *BlockStorage) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	volumes, err := b.api.ListVolumes(ctx, region)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, volume := range volumes {
		perGB, err := b.pricer.Resolve(ctx, domain.KindBlockStorage, volume.VolumeType, region)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("volume_id", volume.ID).
				Str("volume_type", volume.VolumeType).
				Msg("no price for volume, recording at zero")
			perGB = 0
		}

		hourly := monthlyToHourly(volume.SizeGB * perGB)
		attrs := map[string]string{
			domain.AttrVolumeType: volume.VolumeType,
			domain.AttrSizeGB:     strconv.FormatFloat(volume.SizeGB, 'f', -1, 64),
		}
		if volume.AttachedInstanceID != "" {
			attrs[domain.AttrAttachedInstanceID] = volume.AttachedInstanceID
		}

		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindBlockStorage,
			ResourceID: volume.ID,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: attrs,
		})
	}
	return out, nil
}
