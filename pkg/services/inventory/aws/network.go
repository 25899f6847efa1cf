package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

type Network struct {
	cfg awssdk.Config
}

func NewNetwork(cfg awssdk.Config) *Network {
	return &Network{cfg: cfg}
}

// ListLoadBalancers returns the active load balancers in a region.
func (n *Network) ListLoadBalancers(ctx context.Context, region string) ([]inventory.LoadBalancer, error) {
	client := elbv2.NewFromConfig(n.cfg, func(o *elbv2.Options) { o.Region = region })

	var out []inventory.LoadBalancer
	p := elbv2.NewDescribeLoadBalancersPaginator(client, &elbv2.DescribeLoadBalancersInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("DescribeLoadBalancers", region, err)
		}
		for _, lb := range page.LoadBalancers {
			if lb.State != nil && lb.State.Code == elbv2types.LoadBalancerStateEnumFailed {
				continue
			}
			out = append(out, inventory.LoadBalancer{
				Name:           awssdk.ToString(lb.LoadBalancerName),
				Family:         string(lb.Type),
				Region:         region,
				InternetFacing: lb.Scheme == elbv2types.LoadBalancerSchemeEnumInternetFacing,
			})
		}
	}
	return out, nil
}
