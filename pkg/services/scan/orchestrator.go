// Package scan runs full resource scans: it fans the collectors out over
// their regions on a bounded worker pool, merges the records, persists the
// snapshot and keeps the monthly rollup current.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/costwatch/costwatch/pkg/metrics"
	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/collectors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrScanAlreadyRunning rejects a trigger while a scan is in flight.
var ErrScanAlreadyRunning = errors.New("scan already running")

// SnapshotStore persists one scan's records and summary atomically.
type SnapshotStore interface {
	Save(ctx context.Context, records []domain.ResourceRecord, ts time.Time) (domain.Snapshot, error)
}

// MonthlyStore keeps the month-to-date rollup current after each scan. The
// initialize and update steps run inside one transaction so a failed update
// never leaves a half-written month behind.
type MonthlyStore interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	EnsureMonthInitialized(ctx context.Context, now time.Time) error
	UpdateMonth(ctx context.Context, now time.Time) error
}

// CacheRefresher sweeps the price cache. Satisfied by *pricing.Resolver.
type CacheRefresher interface {
	RefreshCache() int
}

type Options struct {
	// Workers bounds the concurrent (collector, region) tasks. Default 10.
	Workers int
	// Timeout is the whole-scan deadline. Default 10 minutes.
	Timeout time.Duration
}

type Orchestrator struct {
	collectors []collectors.Collector
	snapshots  SnapshotStore
	monthly    MonthlyStore
	cache      CacheRefresher
	logger     zerolog.Logger
	opts       Options

	mu     sync.Mutex
	status domain.ScanStatus
}

func NewOrchestrator(
	cs []collectors.Collector,
	snapshots SnapshotStore,
	monthly MonthlyStore,
	cache CacheRefresher,
	logger zerolog.Logger,
	opts Options,
) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}
	return &Orchestrator{
		collectors: cs,
		snapshots:  snapshots,
		monthly:    monthly,
		cache:      cache,
		logger:     logger.With().Str("component", "scan").Logger(),
		opts:       opts,
		status:     domain.ScanStatus{State: domain.ScanIdle},
	}
}

// Status returns a copy of the current scan status.
func (o *Orchestrator) Status() domain.ScanStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Trigger starts a scan in the background and returns its run id
// immediately. A second trigger while one is running is rejected with
// ErrScanAlreadyRunning; the outcome is observed through Status.
func (o *Orchestrator) Trigger(_ context.Context) (string, error) {
	o.mu.Lock()
	if o.status.State == domain.ScanRunning {
		o.mu.Unlock()
		metrics.ScanRejected()
		return "", ErrScanAlreadyRunning
	}
	runID := uuid.NewString()
	o.status = domain.ScanStatus{
		State:     domain.ScanRunning,
		RunID:     runID,
		StartedAt: time.Now(),
	}
	o.mu.Unlock()

	go o.run(runID)
	return runID, nil
}

// Run performs a scan synchronously. Used by the one-shot CLI; the server
// path goes through Trigger.
func (o *Orchestrator) Run(ctx context.Context) (domain.ScanStatus, error) {
	runID, err := o.Trigger(ctx)
	if err != nil {
		return domain.ScanStatus{}, err
	}
	for {
		status := o.Status()
		if status.RunID == runID && status.State != domain.ScanRunning {
			if status.State == domain.ScanFailed {
				return status, errors.New(status.Error)
			}
			return status, nil
		}
		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// run is detached from the triggering request: scans outlive their HTTP
// request and are bounded only by the configured deadline.
func (o *Orchestrator) run(runID string) {
	logger := o.logger.With().Str("run_id", runID).Logger()
	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), o.opts.Timeout)
	defer cancel()

	start := time.Now()
	logger.Info().Int("collectors", len(o.collectors)).Msg("scan started")

	records := o.collect(ctx)
	for _, r := range records {
		metrics.ResourceScanned(r.Kind)
	}

	snapshot, err := o.snapshots.Save(ctx, records, time.Now())
	if err != nil {
		o.finishFailed(runID, fmt.Errorf("failed to save snapshot: %w", err), logger)
		return
	}

	err = o.monthly.InTransaction(ctx, func(ctx context.Context) error {
		if err := o.monthly.EnsureMonthInitialized(ctx, snapshot.Timestamp); err != nil {
			return fmt.Errorf("failed to initialize monthly summary: %w", err)
		}
		if err := o.monthly.UpdateMonth(ctx, snapshot.Timestamp); err != nil {
			return fmt.Errorf("failed to update monthly summary: %w", err)
		}
		return nil
	})
	if err != nil {
		o.finishFailed(runID, err, logger)
		return
	}

	o.refreshCacheAsync(logger)

	elapsed := time.Since(start)
	metrics.ObserveScanDuration(elapsed)
	metrics.SetSnapshotTotals(snapshot.TotalHourlyCost, snapshot.TotalDailyCost)

	o.mu.Lock()
	o.status = domain.ScanStatus{
		State:         domain.ScanCompleted,
		RunID:         runID,
		Progress:      100,
		StartedAt:     o.status.StartedAt,
		FinishedAt:    time.Now(),
		ResourceCount: len(records),
	}
	o.mu.Unlock()

	logger.Info().
		Int("resources", len(records)).
		Float64("total_hourly_cost", snapshot.TotalHourlyCost).
		Dur("elapsed", elapsed).
		Msg("scan completed")
}

type task struct {
	collector collectors.Collector
	region    string
}

// collect fans every (collector, region) pair out over the worker pool and
// merges the results. A failing task logs its cause and contributes
// nothing; it never aborts the scan.
func (o *Orchestrator) collect(ctx context.Context) []domain.ResourceRecord {
	var tasks []task
	for _, c := range o.collectors {
		for _, region := range c.Regions() {
			tasks = append(tasks, task{collector: c, region: region})
		}
	}

	queue := make(chan task)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		records   []domain.ResourceRecord
		completed int
	)

	for i := 0; i < o.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				recs, err := t.collector.Collect(ctx, t.region)
				if err != nil {
					zerolog.Ctx(ctx).Warn().Err(err).
						Str("kind", string(t.collector.Kind())).
						Str("region", t.region).
						Msg("collector failed, region skipped")
				}

				mu.Lock()
				records = append(records, recs...)
				completed++
				progress := completed * 100 / len(tasks)
				mu.Unlock()

				o.setProgress(progress)
			}
		}()
	}

	for _, t := range tasks {
		queue <- t
	}
	close(queue)
	wg.Wait()

	return records
}

func (o *Orchestrator) setProgress(progress int) {
	o.mu.Lock()
	if o.status.State == domain.ScanRunning {
		o.status.Progress = progress
	}
	o.mu.Unlock()
}

func (o *Orchestrator) finishFailed(runID string, err error, logger zerolog.Logger) {
	metrics.ScanFailed()
	logger.Error().Err(err).Msg("scan failed")

	o.mu.Lock()
	o.status = domain.ScanStatus{
		State:      domain.ScanFailed,
		RunID:      runID,
		Progress:   o.status.Progress,
		StartedAt:  o.status.StartedAt,
		FinishedAt: time.Now(),
		Error:      err.Error(),
	}
	o.mu.Unlock()
}

// refreshCacheAsync sweeps expired price cache entries without holding up
// scan completion. A panicking sweep is contained to its goroutine.
func (o *Orchestrator) refreshCacheAsync(logger zerolog.Logger) {
	if o.cache == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Msg("price cache refresh panicked")
			}
		}()
		o.cache.RefreshCache()
	}()
}
