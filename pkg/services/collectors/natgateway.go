package collectors

import (
	"context"
	"strconv"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/costwatch/costwatch/pkg/services/pricing"
)

type NATGatewayAPI interface {
	ListNATGateways(ctx context.Context, region string, metrics inventory.MetricSource) ([]inventory.NATGateway, error)
}

// NATGateway prices available NAT gateways: the flat hourly rate, the
// public address they hold, and processed volume prorated from the
// trailing 30-day metric. Missing metrics price processing at zero.
type NATGateway struct {
	api     NATGatewayAPI
	metrics inventory.MetricSource
	regions []string
}

func NewNATGateway(api NATGatewayAPI, metrics inventory.MetricSource, regions []string) *NATGateway {
	return &NATGateway{api: api, metrics: metrics, regions: regions}
}

func (n *NATGateway) Kind() domain.Kind { return domain.KindNATGateway }
func (n *NATGateway) Regions() []string { return n.regions }

func (n *NATGateway) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	gateways, err := n.api.ListNATGateways(ctx, region, n.metrics)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, gw := range gateways {
		hourly := pricing.NATGatewayHourlyRate + pricing.PublicIPHourlyRate
		hourly += monthlyToHourly(gw.ProcessedGB30d * pricing.NATGatewayPerGBProcessed)

		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindNATGateway,
			ResourceID: gw.ID,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{
				domain.AttrProcessedGB: strconv.FormatFloat(gw.ProcessedGB30d, 'f', 3, 64),
			},
		})
	}
	return out, nil
}
