// Package collectors turns provider inventory into priced resource records,
// one collector per resource kind. Collectors do no persistence and no
// aggregation; the scan orchestrator fans them out and gathers the records.
package collectors

import (
	"context"

	"github.com/costwatch/costwatch/pkg/models/domain"
)

const (
	hoursPerDay  = 24.0
	daysPerMonth = 30.0
)

// Collector produces the priced records of a single resource kind.
type Collector interface {
	Kind() domain.Kind
	// Regions lists the regions this collector scans. Global collectors
	// return a single pinned region.
	Regions() []string
	// Collect returns the records for one region. A failing region returns
	// an error and no records; other regions are unaffected.
	Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error)
}

// Pricer resolves unit prices. Satisfied by *pricing.Resolver.
type Pricer interface {
	Resolve(ctx context.Context, kind domain.Kind, class, region string) (float64, error)
	MessagingHourly() float64
}

func monthlyToHourly(monthly float64) float64 {
	return monthly / daysPerMonth / hoursPerDay
}
