package aws

import (
	"context"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

type Serverless struct {
	cfg     awssdk.Config
	metrics inventory.MetricSource
}

func NewServerless(cfg awssdk.Config, metrics inventory.MetricSource) *Serverless {
	return &Serverless{cfg: cfg, metrics: metrics}
}

// ListFunctions returns the deployed functions in a region with their
// trailing 24h invocation counts. Functions with no invocation datapoints
// report zero.
func (s *Serverless) ListFunctions(ctx context.Context, region string) ([]inventory.Function, error) {
	client := lambda.NewFromConfig(s.cfg, func(o *lambda.Options) { o.Region = region })

	var out []inventory.Function
	p := lambda.NewListFunctionsPaginator(client, &lambda.ListFunctionsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("ListFunctions", region, err)
		}
		for _, fn := range page.Functions {
			name := awssdk.ToString(fn.FunctionName)

			var invocations float64
			if s.metrics != nil {
				sum, ok, err := s.metrics.Query(ctx, region, inventory.MetricQuery{
					Namespace:  "AWS/Lambda",
					MetricName: "Invocations",
					Dimensions: map[string]string{"FunctionName": name},
					Stat:       inventory.StatSum,
					Window:     24 * time.Hour,
				})
				if err == nil && ok {
					invocations = sum
				}
			}

			out = append(out, inventory.Function{
				Name:           name,
				MemoryMB:       int64(awssdk.ToInt32(fn.MemorySize)),
				Region:         region,
				Invocations24h: invocations,
			})
		}
	}
	return out, nil
}
