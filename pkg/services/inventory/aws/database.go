package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

type Database struct {
	cfg awssdk.Config
}

func NewDatabase(cfg awssdk.Config) *Database {
	return &Database{cfg: cfg}
}

// ListDBInstances returns the available database instances in a region.
func (d *Database) ListDBInstances(ctx context.Context, region string) ([]inventory.DBInstance, error) {
	client := rds.NewFromConfig(d.cfg, func(o *rds.Options) { o.Region = region })

	var out []inventory.DBInstance
	p := rds.NewDescribeDBInstancesPaginator(client, &rds.DescribeDBInstancesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("DescribeDBInstances", region, err)
		}
		for _, instance := range page.DBInstances {
			if awssdk.ToString(instance.DBInstanceStatus) != "available" {
				continue
			}
			out = append(out, inventory.DBInstance{
				ID:     awssdk.ToString(instance.DBInstanceIdentifier),
				Class:  awssdk.ToString(instance.DBInstanceClass),
				Engine: awssdk.ToString(instance.Engine),
				Region: region,
			})
		}
	}
	return out, nil
}
