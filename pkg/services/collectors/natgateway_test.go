package collectors

import (
	"context"
	"testing"

	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNATGatewayAPI struct {
	gateways []inventory.NATGateway
	err      error
}

func (f *fakeNATGatewayAPI) ListNATGateways(context.Context, string, inventory.MetricSource) ([]inventory.NATGateway, error) {
	return f.gateways, f.err
}

func TestNATGatewayPricing(t *testing.T) {
	api := &fakeNATGatewayAPI{gateways: []inventory.NATGateway{
		{ID: "nat-quiet", Region: "us-east-1", ProcessedGB30d: 0},
		{ID: "nat-busy", Region: "us-east-1", ProcessedGB30d: 720},
	}}
	c := NewNATGateway(api, &fixedMetrics{}, []string{"us-east-1"})

	records, err := c.Collect(context.Background(), "us-east-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Base rate plus the public address it holds; no processing cost when
	// the metric reported nothing.
	assert.InDelta(t, 0.045+0.005, records[0].HourlyCost, 1e-12)

	// 720 GB over 30 days adds one GB per hour of processing.
	assert.InDelta(t, 0.045+0.005+0.045, records[1].HourlyCost, 1e-12)
	assert.Equal(t, "720.000", records[1].Attributes["processed_gb_30d"])
}
