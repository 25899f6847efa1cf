package collectors

import (
	"context"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/costwatch/costwatch/pkg/services/pricing"
)

type EdgeAPI interface {
	ListDistributions(ctx context.Context) ([]inventory.Distribution, error)
	ListHostedZones(ctx context.Context) ([]inventory.HostedZone, error)
}

// CDN records enabled distributions. Low-volume distributions sit inside
// the free tier, so they are tracked at zero cost for visibility.
type CDN struct {
	api EdgeAPI
}

func NewCDN(api EdgeAPI) *CDN {
	return &CDN{api: api}
}

func (c *CDN) Kind() domain.Kind { return domain.KindCDN }
func (c *CDN) Regions() []string { return []string{"us-east-1"} }

func (c *CDN) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	distributions, err := c.api.ListDistributions(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, dist := range distributions {
		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindCDN,
			ResourceID: dist.ID,
			Region:     region,
			HourlyCost: 0,
			DailyCost:  0,
			Attributes: map[string]string{
				"domain_name": dist.DomainName,
			},
		})
	}
	return out, nil
}

// DNS prices hosted zones at the flat monthly rate. The zone API is
// global, so the collector is pinned to a single region.
type DNS struct {
	api EdgeAPI
}

func NewDNS(api EdgeAPI) *DNS {
	return &DNS{api: api}
}

func (d *DNS) Kind() domain.Kind { return domain.KindDNS }
func (d *DNS) Regions() []string { return []string{"us-east-1"} }

func (d *DNS) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	zones, err := d.api.ListHostedZones(ctx)
	if err != nil {
		return nil, err
	}

	hourly := monthlyToHourly(pricing.DNSZoneMonthlyRate)

	var out []domain.ResourceRecord
	for _, zone := range zones {
		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindDNS,
			ResourceID: zone.ID,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{
				domain.AttrZoneName: zone.Name,
			},
		})
	}
	return out, nil
}
