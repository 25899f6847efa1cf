package collectors

import (
	"context"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/costwatch/costwatch/pkg/services/pricing"
)

type AddressAPI interface {
	ListAddresses(ctx context.Context, region string) ([]inventory.Address, error)
}

// PublicIP prices every public IPv4 address. Since 2024-02-01 all of them
// are billed, attached or not.
type PublicIP struct {
	api     AddressAPI
	regions []string
}

func NewPublicIP(api AddressAPI, regions []string) *PublicIP {
	return &PublicIP{api: api, regions: regions}
}

func (p *PublicIP) Kind() domain.Kind { return domain.KindPublicIP }
func (p *PublicIP) Regions() []string { return p.regions }

func (p *PublicIP) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	addresses, err := p.api.ListAddresses(ctx, region)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, addr := range addresses {
		attrs := map[string]string{
			"ip": addr.IP,
		}
		if addr.AttachedInstanceID != "" {
			attrs[domain.AttrAttachedInstanceID] = addr.AttachedInstanceID
		}

		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindPublicIP,
			ResourceID: addr.ID,
			Region:     region,
			HourlyCost: pricing.PublicIPHourlyRate,
			DailyCost:  pricing.PublicIPHourlyRate * hoursPerDay,
			Attributes: attrs,
		})
	}
	return out, nil
}
