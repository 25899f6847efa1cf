package collectors

import (
	"context"
	"strconv"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/costwatch/costwatch/pkg/services/pricing"
)

type FunctionAPI interface {
	ListFunctions(ctx context.Context, region string) ([]inventory.Function, error)
}

// Functions prices serverless functions from their trailing 24h invocation
// counts. Idle functions cost nothing and are excluded so they never skew
// the snapshot.
type Functions struct {
	api     FunctionAPI
	regions []string
}

func NewFunctions(api FunctionAPI, regions []string) *Functions {
	return &Functions{api: api, regions: regions}
}

func (f *Functions) Kind() domain.Kind { return domain.KindFunction }
func (f *Functions) Regions() []string { return f.regions }

func (f *Functions) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	functions, err := f.api.ListFunctions(ctx, region)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, fn := range functions {
		if fn.Invocations24h <= 0 {
			continue
		}

		hourly := functionHourly(fn.MemoryMB, fn.Invocations24h)
		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindFunction,
			ResourceID: fn.Name,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{
				domain.AttrMemoryMB:    strconv.FormatInt(fn.MemoryMB, 10),
				domain.AttrInvocations: strconv.FormatFloat(fn.Invocations24h, 'f', 0, 64),
			},
		})
	}
	return out, nil
}

// functionHourly estimates the hourly cost of a function assuming one
// second of billed duration per invocation at the configured memory size.
func functionHourly(memoryMB int64, invocations24h float64) float64 {
	perHour := invocations24h / hoursPerDay
	memoryGB := float64(memoryMB) / 1024.0
	return perHour*memoryGB*pricing.LambdaPerGBSecond + perHour*pricing.LambdaPerRequest
}
