package collectors

import (
	"context"
	"strconv"
	"time"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/costwatch/costwatch/pkg/services/pricing"
	"github.com/rs/zerolog"
)

type ComputeAPI interface {
	ListInstances(ctx context.Context, region string) ([]inventory.Instance, error)
}

// Compute prices running instances and their outbound data transfer.
type Compute struct {
	api     ComputeAPI
	metrics inventory.MetricSource
	pricer  Pricer
	regions []string
}

func NewCompute(api ComputeAPI, metrics inventory.MetricSource, pricer Pricer, regions []string) *Compute {
	return &Compute{api: api, metrics: metrics, pricer: pricer, regions: regions}
}

func (c *Compute) Kind() domain.Kind { return domain.KindCompute }
func (c *Compute) Regions() []string { return c.regions }

func (c *Compute) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	instances, err := c.api.ListInstances(ctx, region)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, instance := range instances {
		hourly := c.instancePrice(ctx, instance)

		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindCompute,
			ResourceID: instance.ID,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{
				domain.AttrInstanceClass: instance.InstanceType,
				"name":                   instance.Name,
			},
		})

		if rec, ok := c.dataTransferRecord(ctx, instance); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Compute) instancePrice(ctx context.Context, instance inventory.Instance) float64 {
	hourly, err := c.pricer.Resolve(ctx, domain.KindCompute, instance.InstanceType, instance.Region)
	if err != nil {
		// Unpriceable instances stay in the inventory at zero cost.
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("instance_id", instance.ID).
			Str("instance_type", instance.InstanceType).
			Msg("no price for instance, recording at zero")
		return 0
	}
	return hourly
}

// dataTransferRecord prices an instance's trailing 30-day outbound volume
// through the transfer tiers. Only instances with a public address transfer
// out; those under the free gigabyte produce no record.
func (c *Compute) dataTransferRecord(ctx context.Context, instance inventory.Instance) (domain.ResourceRecord, bool) {
	if c.metrics == nil || instance.PublicIP == "" {
		return domain.ResourceRecord{}, false
	}

	bytes, ok, err := c.metrics.Query(ctx, instance.Region, inventory.MetricQuery{
		Namespace:  "AWS/EC2",
		MetricName: "NetworkOut",
		Dimensions: map[string]string{"InstanceId": instance.ID},
		Stat:       inventory.StatSum,
		Window:     30 * 24 * time.Hour,
	})
	if err != nil || !ok {
		return domain.ResourceRecord{}, false
	}

	transferredGB := bytes / (1024 * 1024 * 1024)
	monthly := pricing.DataTransferOutMonthly(transferredGB)
	if monthly <= 0 {
		return domain.ResourceRecord{}, false
	}

	hourly := monthlyToHourly(monthly)
	return domain.ResourceRecord{
		Kind:       domain.KindCompute,
		ResourceID: instance.ID + "/data-out",
		Region:     instance.Region,
		HourlyCost: hourly,
		DailyCost:  hourly * hoursPerDay,
		Attributes: map[string]string{
			domain.AttrTrafficType:   domain.TrafficTypeDataOut,
			domain.AttrTransferredGB: strconv.FormatFloat(transferredGB, 'f', 3, 64),
		},
	}, true
}
