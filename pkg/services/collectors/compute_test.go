package collectors

import (
	"context"
	"testing"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/costwatch/costwatch/pkg/services/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComputeAPI struct {
	instances []inventory.Instance
	err       error
}

func (f *fakeComputeAPI) ListInstances(context.Context, string) ([]inventory.Instance, error) {
	return f.instances, f.err
}

func TestComputeCollectsInstances(t *testing.T) {
	api := &fakeComputeAPI{instances: []inventory.Instance{
		{ID: "i-abc", Name: "web-1", InstanceType: "t3.medium", Region: "us-east-1"},
	}}
	c := NewCompute(api, nil, &fixedPricer{price: 0.0416}, []string{"us-east-1"})

	records, err := c.Collect(context.Background(), "us-east-1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, domain.KindCompute, r.Kind)
	assert.Equal(t, "i-abc", r.ResourceID)
	assert.InDelta(t, 0.0416, r.HourlyCost, 1e-12)
	assert.InDelta(t, 0.0416*24, r.DailyCost, 1e-12)
	assert.Equal(t, "t3.medium", r.Attributes[domain.AttrInstanceClass])
	assert.Equal(t, string(domain.KindCompute), r.ReportCategory())
}

func TestComputeUnpricedInstanceRecordedAtZero(t *testing.T) {
	api := &fakeComputeAPI{instances: []inventory.Instance{
		{ID: "i-odd", InstanceType: "x99.exotic", Region: "us-east-1"},
	}}
	c := NewCompute(api, nil, &fixedPricer{err: pricing.ErrPriceUnavailable}, []string{"us-east-1"})

	records, err := c.Collect(context.Background(), "us-east-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, records[0].HourlyCost, "inventory stays visible even without a price")
}

func TestComputeDataTransferRecord(t *testing.T) {
	api := &fakeComputeAPI{instances: []inventory.Instance{
		{ID: "i-abc", InstanceType: "t3.medium", Region: "us-east-1", PublicIP: "54.1.2.3"},
	}}
	// 11 GB out over 30 days: one free, ten billed at the first tier.
	metrics := &fixedMetrics{value: 11 * 1024 * 1024 * 1024, ok: true}
	c := NewCompute(api, metrics, &fixedPricer{price: 0.0416}, []string{"us-east-1"})

	records, err := c.Collect(context.Background(), "us-east-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	transfer := records[1]
	assert.Equal(t, "i-abc/data-out", transfer.ResourceID)
	assert.Equal(t, domain.TrafficCategory, transfer.ReportCategory(),
		"outbound transfer reports under traffic, not compute")
	assert.InDelta(t, 10*0.09/30/24, transfer.HourlyCost, 1e-12)
}

func TestComputeNoTransferRecordInsideFreeTier(t *testing.T) {
	api := &fakeComputeAPI{instances: []inventory.Instance{
		{ID: "i-abc", InstanceType: "t3.medium", Region: "us-east-1", PublicIP: "54.1.2.3"},
	}}
	metrics := &fixedMetrics{value: 0.5 * 1024 * 1024 * 1024, ok: true}
	c := NewCompute(api, metrics, &fixedPricer{price: 0.0416}, []string{"us-east-1"})

	records, err := c.Collect(context.Background(), "us-east-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
