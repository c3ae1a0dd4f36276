package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Scheduler runs recurring batch runs on a cron schedule. Runs never
// overlap: a tick that fires while the previous run is still in flight is
// skipped.
type Scheduler struct {
	processor *Processor
	cron      *cron.Cron
	logger    arbor.ILogger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a batch scheduler.
func NewScheduler(processor *Processor, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		processor: processor,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start registers the schedule and begins firing runs. The given context is
// passed to every triggered run.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	if schedule == "" {
		return fmt.Errorf("cron schedule is required")
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("Batch scheduler started")
	return nil
}

// Stop stops firing new runs. A run already in flight completes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Batch scheduler stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous batch run still in flight, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if _, err := s.processor.RunAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled batch run aborted")
	}
}
