package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

// Edge lists the global edge resources: CDN distributions and DNS zones.
// Both APIs are global, so Edge is only consulted from a single region.
type Edge struct {
	cloudfront *cloudfront.Client
	route53    *route53.Client
}

func NewEdge(cfg awssdk.Config) *Edge {
	return &Edge{
		cloudfront: cloudfront.NewFromConfig(cfg),
		route53:    route53.NewFromConfig(cfg),
	}
}

// ListDistributions returns the enabled CDN distributions.
func (e *Edge) ListDistributions(ctx context.Context) ([]inventory.Distribution, error) {
	var out []inventory.Distribution
	p := cloudfront.NewListDistributionsPaginator(e.cloudfront, &cloudfront.ListDistributionsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("ListDistributions", DefaultRegion, err)
		}
		if page.DistributionList == nil {
			continue
		}
		for _, dist := range page.DistributionList.Items {
			if !awssdk.ToBool(dist.Enabled) {
				continue
			}
			out = append(out, inventory.Distribution{
				ID:         awssdk.ToString(dist.Id),
				DomainName: awssdk.ToString(dist.DomainName),
			})
		}
	}
	return out, nil
}

// ListHostedZones returns every DNS zone in the account.
func (e *Edge) ListHostedZones(ctx context.Context) ([]inventory.HostedZone, error) {
	var out []inventory.HostedZone
	p := route53.NewListHostedZonesPaginator(e.route53, &route53.ListHostedZonesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("ListHostedZones", DefaultRegion, err)
		}
		for _, zone := range page.HostedZones {
			out = append(out, inventory.HostedZone{
				ID:   awssdk.ToString(zone.Id),
				Name: awssdk.ToString(zone.Name),
			})
		}
	}
	return out, nil
}
