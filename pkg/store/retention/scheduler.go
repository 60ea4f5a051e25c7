package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the sweeper in the background. It runs in one of two
// modes: a plain interval ticker (the default), or a cron schedule when the
// sweeper config carries a cron expression.
type Scheduler struct {
	sweeper *Sweeper
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool

	// ticker-mode lifecycle
	stopCh chan struct{}
	doneCh chan struct{}

	// nextTick is the next firing time in ticker mode.
	nextTick time.Time
}

// NewScheduler creates a new sweep scheduler.
func NewScheduler(sweeper *Sweeper) *Scheduler {
	return &Scheduler{
		sweeper: sweeper,
		logger:  slog.Default().With("component", "store.retention.scheduler"),
	}
}

// Start begins background sweeping. With a cron expression configured it
// delegates to cron; otherwise it ticks at the configured interval. The
// scheduler stops when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if s.sweeper.config.Limit <= 0 {
		s.logger.Info("retention limit not configured, skipping scheduler")
		return nil
	}

	if schedule := s.sweeper.config.SweepSchedule; schedule != "" {
		return s.startCron(ctx, schedule)
	}

	interval := s.sweeper.config.SweepInterval
	if interval <= 0 {
		return fmt.Errorf("invalid sweep interval %v", interval)
	}

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.nextTick = time.Now().Add(interval)
	s.running = true

	go s.runTicker(ctx, interval)

	s.logger.Info("retention scheduler started",
		"mode", "interval",
		"sweep_interval", interval,
		"retention_limit", s.sweeper.config.Limit,
	)

	return nil
}

// startCron wires the sweep into a cron schedule. Caller holds s.mu.
func (s *Scheduler) startCron(ctx context.Context, schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, func() {
		s.runSweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"mode", "cron",
		"schedule", schedule,
		"retention_limit", s.sweeper.config.Limit,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runTicker is the interval-mode loop.
func (s *Scheduler) runTicker(ctx context.Context, interval time.Duration) {
	defer close(s.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.nextTick = time.Now().Add(interval)
			s.mu.Unlock()
			s.runSweep(ctx)
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		}
	}
}

// runSweep executes one sweep cycle.
func (s *Scheduler) runSweep(ctx context.Context) {
	if _, err := s.sweeper.Sweep(ctx); err != nil {
		s.logger.Error("scheduled sweep failed",
			"error", err,
		)
	}
}

// Stop stops the scheduler and waits for a running sweep to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	// Flip before dropping the lock so a concurrent Stop entering the
	// ticker wait window below doesn't close stopCh a second time.
	s.running = false

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	} else {
		close(s.stopCh)
		s.mu.Unlock()
		<-s.doneCh
		s.mu.Lock()
	}

	s.logger.Info("retention scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when the scheduler
// is idle.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	if s.cron != nil {
		entries := s.cron.Entries()
		if len(entries) == 0 {
			return nil
		}
		next := entries[0].Next
		return &next
	}

	next := s.nextTick
	return &next
}
