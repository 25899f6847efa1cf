package collectors

import (
	"context"
	"strconv"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/costwatch/costwatch/pkg/services/pricing"
)

type VPCEndpointAPI interface {
	ListVPCEndpoints(ctx context.Context, region string, metrics inventory.MetricSource) ([]inventory.VPCEndpoint, error)
}

// VPCEndpoint prices interface-type endpoints: the flat hourly rate plus
// transferred volume prorated from the trailing 30-day metric. Gateway
// endpoints never appear in the inventory; missing metrics price the
// transfer at zero.
type VPCEndpoint struct {
	api     VPCEndpointAPI
	metrics inventory.MetricSource
	regions []string
}

func NewVPCEndpoint(api VPCEndpointAPI, metrics inventory.MetricSource, regions []string) *VPCEndpoint {
	return &VPCEndpoint{api: api, metrics: metrics, regions: regions}
}

func (v *VPCEndpoint) Kind() domain.Kind { return domain.KindVPCEndpoint }
func (v *VPCEndpoint) Regions() []string { return v.regions }

func (v *VPCEndpoint) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	endpoints, err := v.api.ListVPCEndpoints(ctx, region, v.metrics)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, endpoint := range endpoints {
		hourly := pricing.VPCEndpointHourlyRate
		hourly += monthlyToHourly(endpoint.ProcessedGB30d * pricing.VPCEndpointPerGBProcessed)

		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindVPCEndpoint,
			ResourceID: endpoint.ID,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{
				domain.AttrProcessedGB: strconv.FormatFloat(endpoint.ProcessedGB30d, 'f', 3, 64),
				"service_name":         endpoint.ServiceName,
			},
		})
	}
	return out, nil
}
