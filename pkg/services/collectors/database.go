package collectors

import (
	"context"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/rs/zerolog"
)

type DatabaseAPI interface {
	ListDBInstances(ctx context.Context, region string) ([]inventory.DBInstance, error)
}

// Database prices available managed database instances.
type Database struct {
	api     DatabaseAPI
	pricer  Pricer
	regions []string
}

func NewDatabase(api DatabaseAPI, pricer Pricer, regions []string) *Database {
	return &Database{api: api, pricer: pricer, regions: regions}
}

func (d *Database) Kind() domain.Kind { return domain.KindDatabase }
func (d *Database) Regions() []string { return d.regions }

func (d *Database) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	instances, err := d.api.ListDBInstances(ctx, region)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, instance := range instances {
		hourly, err := d.pricer.Resolve(ctx, domain.KindDatabase, instance.Class, region)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("db_instance_id", instance.ID).
				Str("class", instance.Class).
				Msg("no price for database instance, recording at zero")
			hourly = 0
		}

		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindDatabase,
			ResourceID: instance.ID,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{
				domain.AttrInstanceClass: instance.Class,
				domain.AttrEngine:        instance.Engine,
			},
		})
	}
	return out, nil
}
