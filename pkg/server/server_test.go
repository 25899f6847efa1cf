package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/costwatch/costwatch/pkg/models/api"
	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/scan"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSnapshotStore struct {
	mock.Mock
}

func (m *mockSnapshotStore) Save(ctx context.Context, records []domain.ResourceRecord, ts time.Time) (domain.Snapshot, error) {
	args := m.Called(ctx, records, ts)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *mockSnapshotStore) GetLatestSummary(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *mockSnapshotStore) GetCostHistory(ctx context.Context, windowHours int) ([]domain.CostPoint, error) {
	args := m.Called(ctx, windowHours)
	return args.Get(0).([]domain.CostPoint), args.Error(1)
}

func (m *mockSnapshotStore) GetResources(ctx context.Context, ts time.Time) ([]domain.ResourceRecord, error) {
	args := m.Called(ctx, ts)
	return args.Get(0).([]domain.ResourceRecord), args.Error(1)
}

func (m *mockSnapshotStore) GetKindResources(ctx context.Context, ts time.Time, kind domain.Kind) ([]domain.ResourceRecord, error) {
	args := m.Called(ctx, ts, kind)
	return args.Get(0).([]domain.ResourceRecord), args.Error(1)
}

type mockMonthlyStore struct {
	mock.Mock
}

func (m *mockMonthlyStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *mockMonthlyStore) EnsureMonthInitialized(ctx context.Context, now time.Time) error {
	return m.Called(ctx, now).Error(0)
}

func (m *mockMonthlyStore) UpdateMonth(ctx context.Context, now time.Time) error {
	return m.Called(ctx, now).Error(0)
}

func (m *mockMonthlyStore) GetMonth(ctx context.Context, yearMonth string) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, yearMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}

func (m *mockMonthlyStore) ListMonths(ctx context.Context, limit int) ([]domain.MonthlySummary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.MonthlySummary), args.Error(1)
}

type mockScanner struct {
	mock.Mock
}

func (m *mockScanner) Trigger(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockScanner) Status() domain.ScanStatus {
	return m.Called().Get(0).(domain.ScanStatus)
}

func newTestServer(t *testing.T, snapshots *mockSnapshotStore, monthly *mockMonthlyStore, scanner *mockScanner) *httptest.Server {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	router := ConfigureRouter(&logger, Config{
		Dependencies: Dependencies{
			Snapshots: snapshots,
			Monthly:   monthly,
			Scanner:   scanner,
		},
	})
	return httptest.NewServer(router)
}

func TestWebAPI_CurrentCosts(t *testing.T) {
	snapshots := new(mockSnapshotStore)
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	snapshots.On("GetLatestSummary", mock.Anything).Return(&domain.Snapshot{
		Timestamp:       ts,
		TotalHourlyCost: 0.15,
		TotalDailyCost:  3.6,
		Breakdown:       map[string]float64{"compute": 3.6},
	}, nil)
	snapshots.On("GetResources", mock.Anything, ts).Return([]domain.ResourceRecord{
		{Kind: domain.KindCompute, ResourceID: "i-1", Region: "us-east-1", HourlyCost: 0.15, DailyCost: 3.6},
	}, nil)

	server := newTestServer(t, snapshots, new(mockMonthlyStore), new(mockScanner))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/costs/current")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.CurrentCost
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.InDelta(t, 0.15, body.TotalHourlyCost, 1e-9)
	require.Len(t, body.Resources, 1)
	assert.Equal(t, "i-1", body.Resources[0].ResourceID)
}

func TestWebAPI_CurrentCostsNoScans(t *testing.T) {
	snapshots := new(mockSnapshotStore)
	snapshots.On("GetLatestSummary", mock.Anything).Return(nil, nil)

	server := newTestServer(t, snapshots, new(mockMonthlyStore), new(mockScanner))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/costs/current")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebAPI_CostHistoryDefaultsAndValidation(t *testing.T) {
	snapshots := new(mockSnapshotStore)
	snapshots.On("GetCostHistory", mock.Anything, 24).Return([]domain.CostPoint{}, nil)

	server := newTestServer(t, snapshots, new(mockMonthlyStore), new(mockScanner))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/costs/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	snapshots.AssertCalled(t, "GetCostHistory", mock.Anything, 24)

	resp, err = http.Get(server.URL + "/api/v1/costs/history?hours=abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebAPI_MonthlySummaries(t *testing.T) {
	monthly := new(mockMonthlyStore)
	monthly.On("ListMonths", mock.Anything, 6).Return([]domain.MonthlySummary{
		{YearMonth: "2026-03", TotalMonthlyCost: 7.0},
		{YearMonth: "2026-02", TotalMonthlyCost: 42.0},
	}, nil)

	server := newTestServer(t, new(mockSnapshotStore), monthly, new(mockScanner))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/costs/monthly")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []api.MonthlySummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, "2026-03", body[0].YearMonth)
}

func TestWebAPI_CurrentMonthZeroWhenAbsent(t *testing.T) {
	monthly := new(mockMonthlyStore)
	monthly.On("GetMonth", mock.Anything, mock.Anything).Return(nil, nil)

	server := newTestServer(t, new(mockSnapshotStore), monthly, new(mockScanner))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/costs/month")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.MonthlySummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Zero(t, body.TotalMonthlyCost)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), body.YearMonth)
	assert.Positive(t, body.DaysInMonth)
}

func TestWebAPI_KindResourcesUnknownKind(t *testing.T) {
	server := newTestServer(t, new(mockSnapshotStore), new(mockMonthlyStore), new(mockScanner))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/services/mainframe")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebAPI_TriggerScan(t *testing.T) {
	scanner := new(mockScanner)
	scanner.On("Trigger", mock.Anything).Return("run-123", nil)

	server := newTestServer(t, new(mockSnapshotStore), new(mockMonthlyStore), scanner)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/scan", "application/json", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body api.ScanTrigger
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.OK)
	assert.Equal(t, "run-123", body.RunID)
}

func TestWebAPI_TriggerScanConflict(t *testing.T) {
	scanner := new(mockScanner)
	scanner.On("Trigger", mock.Anything).Return("", scan.ErrScanAlreadyRunning)

	server := newTestServer(t, new(mockSnapshotStore), new(mockMonthlyStore), scanner)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/scan", "application/json", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "already_running")
}

func TestWebAPI_ScanStatus(t *testing.T) {
	scanner := new(mockScanner)
	scanner.On("Status").Return(domain.ScanStatus{
		State:    domain.ScanRunning,
		RunID:    "run-123",
		Progress: 40,
	})

	server := newTestServer(t, new(mockSnapshotStore), new(mockMonthlyStore), scanner)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/scan/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.ScanStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "running", body.State)
	assert.Equal(t, 40, body.Progress)
}
