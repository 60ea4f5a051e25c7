package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/Malikabakr/bank-project/pkg/store"
)

// Config contains configuration for the retention sweeper.
type Config struct {
	// Limit is how long an artifact stays fetchable after creation.
	// 0 means keep artifacts forever (no sweeping).
	Limit time.Duration

	// SweepInterval is how often the sweeper scans for expired artifacts.
	// Ignored when SweepSchedule is set.
	SweepInterval time.Duration

	// SweepSchedule is an optional cron expression that replaces the
	// interval ticker. Example: "*/5 * * * *" (every five minutes).
	SweepSchedule string
}

// DefaultConfig returns the default sweeper configuration: two minutes of
// retention, swept once a minute.
func DefaultConfig() *Config {
	return &Config{
		Limit:         2 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// ArtifactStore is the slice of the artifact store the sweeper needs.
type ArtifactStore interface {
	// ListExpired returns all artifacts created strictly before the cutoff.
	ListExpired(ctx context.Context, cutoff time.Time) ([]*store.Artifact, error)

	// Purge removes an artifact regardless of owning session.
	Purge(ctx context.Context, id string) error
}

// Evicter receives the sweep cutoff so dependent state (like finished batch
// job records) can expire on the same clock as the artifacts.
type Evicter interface {
	EvictBefore(cutoff time.Time) int
}

// Sweeper deletes artifacts once they outlive the retention limit. Each
// sweep is independent: a failure to delete one artifact never stops the
// rest, and whatever survives is retried on the next cycle.
type Sweeper struct {
	store     ArtifactStore
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler

	// evicters run after each sweep with the same cutoff.
	evicters []Evicter

	// onSweep, if set, observes the outcome of every cycle.
	onSweep func(deleted, failed int, elapsed time.Duration)

	// now is swappable for tests.
	now func() time.Time
}

// NewSweeper creates a new retention sweeper over the given store.
func NewSweeper(s ArtifactStore, config *Config) *Sweeper {
	if config == nil {
		config = DefaultConfig()
	}

	sw := &Sweeper{
		store:  s,
		config: config,
		logger: slog.Default().With("component", "store.retention"),
		now:    time.Now,
	}
	sw.scheduler = NewScheduler(sw)

	return sw
}

// AddEvicter registers dependent state to expire alongside the artifacts.
// Not safe to call after Start.
func (sw *Sweeper) AddEvicter(e Evicter) {
	sw.evicters = append(sw.evicters, e)
}

// OnSweep registers an observer for sweep outcomes. Not safe to call after
// Start.
func (sw *Sweeper) OnSweep(fn func(deleted, failed int, elapsed time.Duration)) {
	sw.onSweep = fn
}

// Sweep runs a single sweep cycle and returns the number of artifacts
// deleted. Individual deletion failures are logged and skipped; the artifact
// stays listed and is retried next cycle. Sweep returns an error only when
// the expiry listing itself fails.
func (sw *Sweeper) Sweep(ctx context.Context) (int, error) {
	if sw.config.Limit <= 0 {
		return 0, nil
	}

	start := sw.now()
	cutoff := start.Add(-sw.config.Limit)

	expired, err := sw.store.ListExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	deleted, failed := 0, 0
	for _, a := range expired {
		if err := sw.store.Purge(ctx, a.ID); err != nil {
			failed++
			sw.logger.Warn("failed to delete expired artifact",
				"id", a.ID,
				"owner", a.OwnerSession,
				"error", err,
			)
			continue
		}
		deleted++
		sw.logger.Info("expired artifact deleted",
			"id", a.ID,
			"owner", a.OwnerSession,
			"kind", a.Kind,
			"age", sw.now().Sub(a.CreatedAt).Round(time.Second),
		)
	}

	for _, e := range sw.evicters {
		e.EvictBefore(cutoff)
	}

	elapsed := sw.now().Sub(start)
	if sw.onSweep != nil {
		sw.onSweep(deleted, failed, elapsed)
	}

	if deleted == 0 && failed == 0 {
		sw.logger.Debug("sweep completed, nothing expired",
			"retention_limit", sw.config.Limit,
		)
	} else {
		sw.logger.Info("sweep completed",
			"deleted_count", deleted,
			"failed_count", failed,
			"retention_limit", sw.config.Limit,
		)
	}

	return deleted, nil
}

// Start starts the background sweeping schedule.
// Call this when starting the application.
func (sw *Sweeper) Start(ctx context.Context) error {
	return sw.scheduler.Start(ctx)
}

// Stop stops the background sweeping schedule.
// Call this during graceful shutdown.
func (sw *Sweeper) Stop() {
	sw.scheduler.Stop()
}

// NextSweep returns the time of the next scheduled sweep, if one is
// scheduled.
func (sw *Sweeper) NextSweep() *time.Time {
	return sw.scheduler.NextRun()
}
