// Package costs exposes scan results and scan control over HTTP.
package costs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/costwatch/costwatch/pkg/adapters"
	"github.com/costwatch/costwatch/pkg/models/api"
	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/scan"
	"github.com/costwatch/costwatch/pkg/store/costdb/monthly"
	"github.com/costwatch/costwatch/pkg/store/costdb/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultHistoryHours = 24
	maxHistoryHours     = 24 * 30
	monthlyListLimit    = 6
)

// Scanner is the scan-control surface the handler needs.
type Scanner interface {
	Trigger(ctx context.Context) (string, error)
	Status() domain.ScanStatus
}

type Handler struct {
	snapshots snapshot.Store
	monthly   monthly.Store
	scanner   Scanner
}

func NewHandler(snapshots snapshot.Store, monthlyStore monthly.Store, scanner Scanner) *Handler {
	return &Handler{
		snapshots: snapshots,
		monthly:   monthlyStore,
		scanner:   scanner,
	}
}

// GetCurrentCosts returns the latest snapshot with its resource rows.
func (h *Handler) GetCurrentCosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	latest, err := h.snapshots.GetLatestSummary(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "failed to load latest snapshot", err)
		return
	}
	if latest == nil {
		writeError(ctx, w, http.StatusNotFound, "no scans recorded yet", nil)
		return
	}

	resources, err := h.snapshots.GetResources(ctx, latest.Timestamp)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "failed to load resources", err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, adapters.MapSnapshotDomainToApi(*latest, resources))
}

// GetCostHistory returns one point per scan in the trailing window.
func (h *Handler) GetCostHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hours := defaultHistoryHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, http.StatusBadRequest, "hours must be a positive integer", err)
			return
		}
		hours = parsed
	}
	if hours > maxHistoryHours {
		hours = maxHistoryHours
	}

	points, err := h.snapshots.GetCostHistory(ctx, hours)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "failed to load cost history", err)
		return
	}

	response := make([]api.CostPoint, 0, len(points))
	for _, p := range points {
		response = append(response, adapters.MapCostPointDomainToApi(p))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

// GetMonthlySummaries returns the last few monthly rollups, newest first.
func (h *Handler) GetMonthlySummaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	months, err := h.monthly.ListMonths(ctx, monthlyListLimit)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "failed to load monthly summaries", err)
		return
	}

	response := make([]api.MonthlySummary, 0, len(months))
	for _, m := range months {
		response = append(response, adapters.MapMonthlySummaryDomainToApi(m))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

// GetCurrentMonth returns the running month's rollup, zero-valued when no
// scan has landed in it yet.
func (h *Handler) GetCurrentMonth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now().UTC()
	yearMonth := now.Format("2006-01")

	month, err := h.monthly.GetMonth(ctx, yearMonth)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "failed to load current month", err)
		return
	}
	if month == nil {
		month = &domain.MonthlySummary{YearMonth: yearMonth, Breakdown: map[string]float64{}}
	}

	response := adapters.MapMonthlySummaryDomainToApi(*month)
	response.DaysInMonth = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1).Day()
	writeJSON(ctx, w, http.StatusOK, response)
}

// GetKindResources returns the latest snapshot's records of one kind.
func (h *Handler) GetKindResources(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, ok := domain.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(ctx, w, http.StatusBadRequest, "unknown resource kind", nil)
		return
	}

	latest, err := h.snapshots.GetLatestSummary(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "failed to load latest snapshot", err)
		return
	}
	if latest == nil {
		writeError(ctx, w, http.StatusNotFound, "no scans recorded yet", nil)
		return
	}

	resources, err := h.snapshots.GetKindResources(ctx, latest.Timestamp, kind)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "failed to load resources", err)
		return
	}

	response := make([]api.Resource, 0, len(resources))
	for _, res := range resources {
		response = append(response, adapters.MapResourceRecordDomainToApi(res))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

// TriggerScan starts a scan and answers immediately; progress is observed
// through the status endpoint.
func (h *Handler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID, err := h.scanner.Trigger(ctx)
	if errors.Is(err, scan.ErrScanAlreadyRunning) {
		writeJSON(ctx, w, http.StatusConflict, api.ScanTrigger{OK: false, Error: "already_running"})
		return
	}
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "failed to trigger scan", err)
		return
	}

	writeJSON(ctx, w, http.StatusAccepted, api.ScanTrigger{OK: true, RunID: runID})
}

// GetScanStatus returns the current or most recent scan's status.
func (h *Handler) GetScanStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, adapters.MapScanStatusDomainToApi(h.scanner.Status()))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg(message)
	}
	writeJSON(ctx, w, status, map[string]string{"error": message})
}
