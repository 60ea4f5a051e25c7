package batch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker keeps in-memory state for batch jobs: one record per uploaded
// spreadsheet, holding counters and lifecycle status. Progress counters only
// move forward and never exceed the row total; readers always get a
// self-consistent snapshot.
//
// Job records are ephemeral. They expire alongside the artifacts they
// describe, via EvictBefore driven by the retention sweeper.
type Tracker struct {
	jobs   map[string]*job
	mu     sync.RWMutex
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewTracker creates an empty job tracker.
func NewTracker() *Tracker {
	return &Tracker{
		jobs:   make(map[string]*job),
		logger: slog.Default().With("component", "batch.tracker"),
		now:    time.Now,
	}
}

// Create registers a new pending job for the session and returns its
// snapshot.
func (t *Tracker) Create(sessionID, filename string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	j := &job{
		id:           uuid.New().String(),
		ownerSession: sessionID,
		filename:     filename,
		status:       StatusPending,
		createdAt:    now,
		updatedAt:    now,
	}
	t.jobs[j.id] = j

	t.logger.Debug("batch job created",
		"job_id", j.id,
		"owner", sessionID,
		"filename", filename,
	)

	return j.snapshot()
}

// Start moves a pending job to running and fixes its row total. The total
// is immutable afterwards.
func (t *Tracker) Start(jobID string, total int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if j.status != StatusPending {
		return NewTransitionError(jobID, j.status, "start", "job is not pending")
	}
	if total < 0 {
		return NewTransitionError(jobID, j.status, "start", "negative row total")
	}

	j.status = StatusRunning
	j.total = total
	j.updatedAt = t.now()

	return nil
}

// Advance records one successfully processed row and appends its stored
// document to the job's artifact sequence, preserving input row order. The
// combined count of completed and skipped rows can never exceed the total.
func (t *Tracker) Advance(jobID, artifactID string) error {
	return t.bump(jobID, "advance", func(j *job) {
		j.completed++
		j.artifacts = append(j.artifacts, artifactID)
	})
}

// Skip records one row that failed to process and was passed over.
func (t *Tracker) Skip(jobID string) error {
	return t.bump(jobID, "skip", func(j *job) { j.skipped++ })
}

func (t *Tracker) bump(jobID, action string, apply func(*job)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if j.status != StatusRunning {
		return NewTransitionError(jobID, j.status, action, "job is not running")
	}
	if j.completed+j.skipped >= j.total {
		return NewTransitionError(jobID, j.status, action, "all rows already accounted for")
	}

	apply(j)
	j.updatedAt = t.now()

	return nil
}

// SetZip records the stored zip artifact holding the job's generated
// documents.
func (t *Tracker) SetZip(jobID, artifactID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if j.status.Terminal() {
		return ErrAlreadyTerminal
	}

	j.zipID = artifactID
	j.updatedAt = t.now()

	return nil
}

// Finish moves a running job to completed. Finishing a terminal job is
// rejected with ErrAlreadyTerminal; the first outcome wins.
func (t *Tracker) Finish(jobID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if j.status.Terminal() {
		return ErrAlreadyTerminal
	}
	if j.status != StatusRunning {
		return NewTransitionError(jobID, j.status, "finish", "job never started")
	}

	j.status = StatusCompleted
	j.updatedAt = t.now()

	t.logger.Info("batch job completed",
		"job_id", j.id,
		"owner", j.ownerSession,
		"total", j.total,
		"completed", j.completed,
		"skipped", j.skipped,
	)

	return nil
}

// Fail moves a pending or running job to failed with the given message.
// Failing a terminal job is rejected with ErrAlreadyTerminal.
func (t *Tracker) Fail(jobID, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if j.status.Terminal() {
		return ErrAlreadyTerminal
	}

	j.status = StatusFailed
	j.errMsg = message
	j.updatedAt = t.now()

	t.logger.Warn("batch job failed",
		"job_id", j.id,
		"owner", j.ownerSession,
		"error", message,
	)

	return nil
}

// Snapshot returns a self-consistent view of the job. Jobs owned by another
// session behave like jobs that never existed.
func (t *Tracker) Snapshot(sessionID, jobID string) (Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	j, ok := t.jobs[jobID]
	if !ok || j.ownerSession != sessionID {
		return Snapshot{}, ErrNotFound
	}

	return j.snapshot(), nil
}

// ListSession returns snapshots of every job owned by the session, in no
// particular order.
func (t *Tracker) ListSession(sessionID string) []Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Snapshot
	for _, j := range t.jobs {
		if j.ownerSession == sessionID {
			out = append(out, j.snapshot())
		}
	}
	return out
}

// EvictSession drops every job owned by the session and reports how many
// were dropped.
func (t *Tracker) EvictSession(sessionID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	dropped := 0
	for id, j := range t.jobs {
		if j.ownerSession == sessionID {
			delete(t.jobs, id)
			dropped++
		}
	}
	return dropped
}

// EvictBefore drops terminal jobs last updated at or before the cutoff and
// reports how many were dropped. Live jobs are never evicted. This is the
// retention sweeper's hook, so job records expire on the same clock as the
// artifacts they describe.
func (t *Tracker) EvictBefore(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	dropped := 0
	for id, j := range t.jobs {
		if j.status.Terminal() && !j.updatedAt.After(cutoff) {
			delete(t.jobs, id)
			dropped++
		}
	}

	if dropped > 0 {
		t.logger.Debug("evicted terminal batch jobs",
			"dropped_count", dropped,
		)
	}

	return dropped
}

// Count returns the number of tracked jobs, terminal ones included.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.jobs)
}
