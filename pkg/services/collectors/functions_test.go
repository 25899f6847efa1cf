package collectors

import (
	"context"
	"testing"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFunctionAPI struct {
	functions []inventory.Function
	err       error
}

func (f *fakeFunctionAPI) ListFunctions(context.Context, string) ([]inventory.Function, error) {
	return f.functions, f.err
}

func TestFunctionsExcludeIdle(t *testing.T) {
	api := &fakeFunctionAPI{functions: []inventory.Function{
		{Name: "idle", MemoryMB: 512, Region: "us-east-1", Invocations24h: 0},
		{Name: "busy", MemoryMB: 512, Region: "us-east-1", Invocations24h: 2400},
	}}
	c := NewFunctions(api, []string{"us-east-1"})

	records, err := c.Collect(context.Background(), "us-east-1")
	require.NoError(t, err)
	require.Len(t, records, 1, "functions with no invocations are not billed")
	assert.Equal(t, "busy", records[0].ResourceID)
}

func TestFunctionsHourlyFormula(t *testing.T) {
	// 2400 invocations over 24h is 100 per hour at 0.5 GB.
	got := functionHourly(512, 2400)
	want := 100*0.5*0.0000166667 + 100*0.0000002
	assert.InDelta(t, want, got, 1e-12)
}

func TestFunctionsRecordAttributes(t *testing.T) {
	api := &fakeFunctionAPI{functions: []inventory.Function{
		{Name: "worker", MemoryMB: 1024, Region: "eu-west-1", Invocations24h: 48},
	}}
	c := NewFunctions(api, []string{"eu-west-1"})

	records, err := c.Collect(context.Background(), "eu-west-1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, domain.KindFunction, r.Kind)
	assert.Equal(t, "1024", r.Attributes[domain.AttrMemoryMB])
	assert.Equal(t, "48", r.Attributes[domain.AttrInvocations])
	assert.InDelta(t, r.HourlyCost*24, r.DailyCost, 1e-12)
}
