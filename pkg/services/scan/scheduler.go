package scan

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Triggerer starts scans. Satisfied by *Orchestrator.
type Triggerer interface {
	Trigger(ctx context.Context) (string, error)
}

// Scheduler triggers a scan immediately and then on a fixed interval. An
// interval firing into a still-running scan is skipped, not queued.
type Scheduler struct {
	scanner  Triggerer
	interval time.Duration
	logger   zerolog.Logger
}

func NewScheduler(scanner Triggerer, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		scanner:  scanner,
		interval: interval,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start runs the schedule until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.trigger(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.trigger(ctx)
			}
		}
	}()
}

func (s *Scheduler) trigger(ctx context.Context) {
	runID, err := s.scanner.Trigger(ctx)
	if errors.Is(err, ErrScanAlreadyRunning) {
		s.logger.Warn().Msg("previous scan still running, interval skipped")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to trigger scheduled scan")
		return
	}
	s.logger.Info().Str("run_id", runID).Msg("scheduled scan triggered")
}
