package retention

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Malikabakr/bank-project/pkg/store"
)

// fakeStore implements ArtifactStore with scriptable failures.
type fakeStore struct {
	artifacts map[string]*store.Artifact
	failIDs   map[string]bool
	purged    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		artifacts: make(map[string]*store.Artifact),
		failIDs:   make(map[string]bool),
	}
}

func (f *fakeStore) add(id, owner string, createdAt time.Time) {
	f.artifacts[id] = &store.Artifact{
		ID:           id,
		OwnerSession: owner,
		Kind:         store.KindOutput,
		CreatedAt:    createdAt,
	}
}

func (f *fakeStore) ListExpired(ctx context.Context, cutoff time.Time) ([]*store.Artifact, error) {
	var out []*store.Artifact
	for _, a := range f.artifacts {
		if a.CreatedAt.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) Purge(ctx context.Context, id string) error {
	if f.failIDs[id] {
		return errors.New("disk error")
	}
	delete(f.artifacts, id)
	f.purged = append(f.purged, id)
	return nil
}

func TestSweeper_DeletesOnlyExpired(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	fs := newFakeStore()
	fs.add("old", "session-a", base.Add(-3*time.Minute))
	fs.add("boundary", "session-a", base.Add(-2*time.Minute))
	fs.add("fresh", "session-a", base.Add(-30*time.Second))

	sw := NewSweeper(fs, &Config{Limit: 2 * time.Minute, SweepInterval: time.Minute})
	sw.now = func() time.Time { return base }

	deleted, err := sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Sweep() deleted %d, want 1", deleted)
	}
	if _, ok := fs.artifacts["old"]; ok {
		t.Error("expired artifact survived the sweep")
	}
	// Age exactly equal to the limit has not outlived it yet.
	if _, ok := fs.artifacts["boundary"]; !ok {
		t.Error("artifact at exactly the retention limit was swept")
	}
	if _, ok := fs.artifacts["fresh"]; !ok {
		t.Error("fresh artifact was swept")
	}
}

func TestSweeper_ToleratesDeletionFailures(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	fs := newFakeStore()
	fs.add("a", "session-a", base.Add(-5*time.Minute))
	fs.add("b", "session-a", base.Add(-5*time.Minute))
	fs.add("c", "session-b", base.Add(-5*time.Minute))
	fs.failIDs["b"] = true

	sw := NewSweeper(fs, &Config{Limit: 2 * time.Minute, SweepInterval: time.Minute})
	sw.now = func() time.Time { return base }

	deleted, err := sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("Sweep() deleted %d, want 2", deleted)
	}

	// The failed artifact stays listed and is retried next cycle.
	fs.failIDs["b"] = false
	deleted, err = sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("second Sweep() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("second Sweep() deleted %d, want 1", deleted)
	}
}

func TestSweeper_ZeroLimitDisablesSweeping(t *testing.T) {
	fs := newFakeStore()
	fs.add("a", "session-a", time.Now().Add(-time.Hour))

	sw := NewSweeper(fs, &Config{Limit: 0})

	deleted, err := sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Sweep() deleted %d with zero limit, want 0", deleted)
	}
}

func TestSweeper_NotifiesEvicters(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	fs := newFakeStore()
	sw := NewSweeper(fs, &Config{Limit: 2 * time.Minute, SweepInterval: time.Minute})
	sw.now = func() time.Time { return base }

	var gotCutoff time.Time
	sw.AddEvicter(evictFunc(func(cutoff time.Time) int {
		gotCutoff = cutoff
		return 0
	}))

	if _, err := sw.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	want := base.Add(-2 * time.Minute)
	if !gotCutoff.Equal(want) {
		t.Errorf("evicter cutoff = %v, want %v", gotCutoff, want)
	}
}

type evictFunc func(cutoff time.Time) int

func (f evictFunc) EvictBefore(cutoff time.Time) int { return f(cutoff) }

func TestSweeper_EndToEndWithFileStore(t *testing.T) {
	s, err := store.NewFileStore(store.Options{
		DataDir: t.TempDir(),
		Index:   store.NewMemoryIndex(),
	})
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	a, err := s.Put(ctx, "session-a", store.KindOutput, "card.pdf", "application/pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	sw := NewSweeper(s, &Config{Limit: 2 * time.Minute, SweepInterval: time.Minute})

	// Not yet expired.
	deleted, err := sw.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Sweep() deleted %d before expiry, want 0", deleted)
	}

	// Jump the clock past the retention limit.
	sw.now = func() time.Time { return time.Now().Add(3 * time.Minute) }
	deleted, err = sw.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Sweep() deleted %d after expiry, want 1", deleted)
	}

	if _, _, err := s.Get(ctx, "session-a", a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() after sweep error = %v, want ErrNotFound", err)
	}
}

func TestScheduler_IntervalMode(t *testing.T) {
	base := time.Now()

	fs := newFakeStore()
	fs.add("old", "session-a", base.Add(-time.Hour))

	sw := NewSweeper(fs, &Config{Limit: 2 * time.Minute, SweepInterval: 20 * time.Millisecond})

	var sweeps atomic.Int32
	sw.OnSweep(func(deleted, failed int, elapsed time.Duration) {
		sweeps.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sw.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !sw.scheduler.IsRunning() {
		t.Fatal("scheduler not running after Start")
	}
	if sw.NextSweep() == nil {
		t.Error("NextSweep() = nil while running")
	}

	deadline := time.After(2 * time.Second)
	for sweeps.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no sweep fired within deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}

	sw.Stop()
	if sw.scheduler.IsRunning() {
		t.Error("scheduler still running after Stop")
	}

	if _, ok := fs.artifacts["old"]; ok {
		t.Error("expired artifact survived scheduled sweeping")
	}
}

// Concurrent Stops must close the ticker's stop channel exactly once.
func TestScheduler_ConcurrentStop(t *testing.T) {
	sw := NewSweeper(newFakeStore(), &Config{Limit: 2 * time.Minute, SweepInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sw.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sw.Stop()
		}()
	}
	wg.Wait()

	if sw.scheduler.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}

func TestScheduler_CronModeRejectsBadSchedule(t *testing.T) {
	sw := NewSweeper(newFakeStore(), &Config{
		Limit:         2 * time.Minute,
		SweepSchedule: "not a schedule",
	})

	if err := sw.Start(context.Background()); err == nil {
		t.Error("Start() with invalid cron schedule succeeded, want error")
	}
}
