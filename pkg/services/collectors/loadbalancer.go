package collectors

import (
	"context"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/costwatch/costwatch/pkg/services/pricing"
)

type LoadBalancerAPI interface {
	ListLoadBalancers(ctx context.Context, region string) ([]inventory.LoadBalancer, error)
}

// LoadBalancer prices load balancers at the flat family rate. An
// internet-facing balancer also carries the public address surcharge.
type LoadBalancer struct {
	api     LoadBalancerAPI
	regions []string
}

func NewLoadBalancer(api LoadBalancerAPI, regions []string) *LoadBalancer {
	return &LoadBalancer{api: api, regions: regions}
}

func (l *LoadBalancer) Kind() domain.Kind { return domain.KindLoadBalancer }
func (l *LoadBalancer) Regions() []string { return l.regions }

func (l *LoadBalancer) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	balancers, err := l.api.ListLoadBalancers(ctx, region)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, lb := range balancers {
		hourly := pricing.LoadBalancerHourly(lb.Family)
		scheme := "internal"
		if lb.InternetFacing {
			hourly += pricing.PublicIPHourlyRate
			scheme = "internet-facing"
		}

		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindLoadBalancer,
			ResourceID: lb.Name,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{
				domain.AttrFamily: lb.Family,
				domain.AttrScheme: scheme,
			},
		})
	}
	return out, nil
}
