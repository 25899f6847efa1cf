package collectors

import (
	"context"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/costwatch/costwatch/pkg/services/pricing"
)

// fixedPricer resolves every class to the same unit price.
type fixedPricer struct {
	price     float64
	err       error
	messaging float64
}

func (p *fixedPricer) Resolve(_ context.Context, _ domain.Kind, _, _ string) (float64, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.price, nil
}

func (p *fixedPricer) MessagingHourly() float64 { return p.messaging }

var _ Pricer = (*pricing.Resolver)(nil)

// fixedMetrics returns one canned answer for every metric query.
type fixedMetrics struct {
	value float64
	ok    bool
	err   error
}

func (m *fixedMetrics) Query(_ context.Context, _ string, _ inventory.MetricQuery) (float64, bool, error) {
	return m.value, m.ok, m.err
}
