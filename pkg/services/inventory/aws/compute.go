package aws

import (
	"context"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

type Compute struct {
	cfg awssdk.Config
}

func NewCompute(cfg awssdk.Config) *Compute {
	return &Compute{cfg: cfg}
}

func (c *Compute) client(region string) *ec2.Client {
	return ec2.NewFromConfig(c.cfg, func(o *ec2.Options) { o.Region = region })
}

// ListInstances returns the running instances in a region.
func (c *Compute) ListInstances(ctx context.Context, region string) ([]inventory.Instance, error) {
	client := c.client(region)

	var out []inventory.Instance
	p := ec2.NewDescribeInstancesPaginator(client, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{
				Name:   awssdk.String("instance-state-name"),
				Values: []string{"running"},
			},
		},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("DescribeInstances", region, err)
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				name := awssdk.ToString(instance.InstanceId)
				for _, tag := range instance.Tags {
					if awssdk.ToString(tag.Key) == "Name" {
						name = awssdk.ToString(tag.Value)
						break
					}
				}
				out = append(out, inventory.Instance{
					ID:           awssdk.ToString(instance.InstanceId),
					Name:         name,
					InstanceType: string(instance.InstanceType),
					Region:       region,
					PublicIP:     awssdk.ToString(instance.PublicIpAddress),
				})
			}
		}
	}
	return out, nil
}

// ListVolumes returns the in-use EBS volumes in a region.
func (c *Compute) ListVolumes(ctx context.Context, region string) ([]inventory.Volume, error) {
	client := c.client(region)

	var out []inventory.Volume
	p := ec2.NewDescribeVolumesPaginator(client, &ec2.DescribeVolumesInput{
		Filters: []types.Filter{
			{
				Name:   awssdk.String("status"),
				Values: []string{"in-use"},
			},
		},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("DescribeVolumes", region, err)
		}
		for _, volume := range page.Volumes {
			attached := ""
			for _, att := range volume.Attachments {
				if att.State == types.VolumeAttachmentStateAttached {
					attached = awssdk.ToString(att.InstanceId)
					break
				}
			}
			out = append(out, inventory.Volume{
				ID:                 awssdk.ToString(volume.VolumeId),
				VolumeType:         string(volume.VolumeType),
				SizeGB:             float64(awssdk.ToInt32(volume.Size)),
				Region:             region,
				AttachedInstanceID: attached,
			})
		}
	}
	return out, nil
}

// ListAddresses returns every public IPv4 address in a region: elastic IPs
// plus instance-ephemeral public addresses not covered by an allocation.
// All of them are billed, attached or not.
func (c *Compute) ListAddresses(ctx context.Context, region string) ([]inventory.Address, error) {
	client := c.client(region)

	resp, err := client.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, inventory.Classify("DescribeAddresses", region, err)
	}

	var out []inventory.Address
	elastic := make(map[string]bool)
	for _, addr := range resp.Addresses {
		ip := awssdk.ToString(addr.PublicIp)
		elastic[ip] = true
		out = append(out, inventory.Address{
			ID:                 awssdk.ToString(addr.AllocationId),
			IP:                 ip,
			Region:             region,
			AttachedInstanceID: awssdk.ToString(addr.InstanceId),
		})
	}

	p := ec2.NewDescribeInstancesPaginator(client, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{
				Name:   awssdk.String("instance-state-name"),
				Values: []string{"running"},
			},
		},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("DescribeInstances", region, err)
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				ip := awssdk.ToString(instance.PublicIpAddress)
				if ip == "" || elastic[ip] {
					continue
				}
				out = append(out, inventory.Address{
					ID:                 "ip-" + strings.ReplaceAll(ip, ".", "-"),
					IP:                 ip,
					Region:             region,
					AttachedInstanceID: awssdk.ToString(instance.InstanceId),
				})
			}
		}
	}
	return out, nil
}

// ListVPCEndpoints returns the available interface-type VPC endpoints in a
// region along with their trailing 30-day transferred volume. Gateway
// endpoints are free and skipped; a missing metric yields zero.
func (c *Compute) ListVPCEndpoints(ctx context.Context, region string, metrics inventory.MetricSource) ([]inventory.VPCEndpoint, error) {
	client := c.client(region)

	var out []inventory.VPCEndpoint
	p := ec2.NewDescribeVpcEndpointsPaginator(client, &ec2.DescribeVpcEndpointsInput{
		Filters: []types.Filter{
			{
				Name:   awssdk.String("vpc-endpoint-state"),
				Values: []string{"available"},
			},
			{
				Name:   awssdk.String("vpc-endpoint-type"),
				Values: []string{"Interface"},
			},
		},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("DescribeVpcEndpoints", region, err)
		}
		for _, endpoint := range page.VpcEndpoints {
			id := awssdk.ToString(endpoint.VpcEndpointId)

			var processedGB float64
			if metrics != nil {
				bytes, ok, err := metrics.Query(ctx, region, inventory.MetricQuery{
					Namespace:  "AWS/VPC",
					MetricName: "BytesTransferred",
					Dimensions: map[string]string{"VpcEndpointId": id},
					Stat:       inventory.StatSum,
					Window:     30 * 24 * time.Hour,
				})
				if err == nil && ok {
					processedGB = bytes / (1024 * 1024 * 1024)
				}
			}

			out = append(out, inventory.VPCEndpoint{
				ID:             id,
				ServiceName:    awssdk.ToString(endpoint.ServiceName),
				Region:         region,
				ProcessedGB30d: processedGB,
			})
		}
	}
	return out, nil
}

// ListNATGateways returns the available NAT gateways in a region along with
// their trailing 30-day processed volume. A missing metric yields zero.
func (c *Compute) ListNATGateways(ctx context.Context, region string, metrics inventory.MetricSource) ([]inventory.NATGateway, error) {
	client := c.client(region)

	var out []inventory.NATGateway
	p := ec2.NewDescribeNatGatewaysPaginator(client, &ec2.DescribeNatGatewaysInput{
		Filter: []types.Filter{
			{
				Name:   awssdk.String("state"),
				Values: []string{"available"},
			},
		},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("DescribeNatGateways", region, err)
		}
		for _, gw := range page.NatGateways {
			id := awssdk.ToString(gw.NatGatewayId)

			var processedGB float64
			if metrics != nil {
				bytes, ok, err := metrics.Query(ctx, region, inventory.MetricQuery{
					Namespace:  "AWS/NATGateway",
					MetricName: "BytesOutToDestination",
					Dimensions: map[string]string{"NatGatewayId": id},
					Stat:       inventory.StatSum,
					Window:     30 * 24 * time.Hour,
				})
				if err == nil && ok {
					processedGB = bytes / (1024 * 1024 * 1024)
				}
			}

			out = append(out, inventory.NATGateway{
				ID:             id,
				Region:         region,
				ProcessedGB30d: processedGB,
			})
		}
	}
	return out, nil
}
