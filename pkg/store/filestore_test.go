package store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T, maxBytes int64) *FileStore {
	t.Helper()

	s, err := NewFileStore(Options{
		DataDir:          t.TempDir(),
		MaxArtifactBytes: maxBytes,
		Index:            NewMemoryIndex(),
	})
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestFileStore_PutGet(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	a, err := s.Put(ctx, "session-a", KindOutput, "Ali Hassan , 1234.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if a.ID == "" {
		t.Error("Put() returned empty ID")
	}
	if a.OwnerSession != "session-a" {
		t.Errorf("OwnerSession = %q, want %q", a.OwnerSession, "session-a")
	}
	if a.Size != int64(len("pdf bytes")) {
		t.Errorf("Size = %d, want %d", a.Size, len("pdf bytes"))
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}

	got, rc, err := s.Get(ctx, "session-a", a.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(content) != "pdf bytes" {
		t.Errorf("content = %q, want %q", content, "pdf bytes")
	}
	if got.Name != "Ali Hassan , 1234.pdf" {
		t.Errorf("Name = %q, want %q", got.Name, "Ali Hassan , 1234.pdf")
	}
}

func TestFileStore_SessionIsolation(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	a, err := s.Put(ctx, "session-a", KindUpload, "cards.xlsx", "", strings.NewReader("rows"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// A foreign session sees nothing.
	if _, _, err := s.Get(ctx, "session-b", a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() from foreign session error = %v, want ErrNotFound", err)
	}
	if _, err := s.Stat(ctx, "session-b", a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stat() from foreign session error = %v, want ErrNotFound", err)
	}

	// A foreign delete succeeds without effect.
	if err := s.Delete(ctx, "session-b", a.ID); err != nil {
		t.Errorf("Delete() from foreign session error = %v", err)
	}
	if _, err := s.Stat(ctx, "session-a", a.ID); err != nil {
		t.Errorf("artifact gone after foreign delete: %v", err)
	}
}

func TestFileStore_DeleteIdempotent(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	a, err := s.Put(ctx, "session-a", KindOutput, "out.pdf", "application/pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := s.Delete(ctx, "session-a", a.ID); err != nil {
		t.Fatalf("first Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "session-a", a.ID); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}

	if _, _, err := s.Get(ctx, "session-a", a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(a.Path); !os.IsNotExist(err) {
		t.Errorf("file still on disk after delete: %v", err)
	}
}

func TestFileStore_SizeCap(t *testing.T) {
	s := newTestStore(t, 8)
	ctx := context.Background()

	if _, err := s.Put(ctx, "session-a", KindUpload, "big.xlsx", "", strings.NewReader("way too large")); !errors.Is(err, ErrStoreFull) {
		t.Fatalf("Put() oversized error = %v, want ErrStoreFull", err)
	}

	// Nothing left behind.
	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}

	entries, err := os.ReadDir(filepath.Join(s.dataDir, "session-a"))
	if err == nil && len(entries) != 0 {
		t.Errorf("found %d leftover files after rejected Put", len(entries))
	}
}

func TestFileStore_ListExpired(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	old, err := s.Put(ctx, "session-a", KindOutput, "old.pdf", "", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	s.now = func() time.Time { return base.Add(90 * time.Second) }
	fresh, err := s.Put(ctx, "session-a", KindOutput, "fresh.pdf", "", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Cutoff one minute past base: only the older artifact qualifies.
	expired, err := s.ListExpired(ctx, base.Add(60*time.Second))
	if err != nil {
		t.Fatalf("ListExpired() error = %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("ListExpired() returned %d artifacts, want 1", len(expired))
	}
	if expired[0].ID != old.ID {
		t.Errorf("ListExpired() returned %q, want %q", expired[0].ID, old.ID)
	}
	_ = fresh

	// A cutoff equal to the creation time excludes the artifact.
	expired, err = s.ListExpired(ctx, base)
	if err != nil {
		t.Fatalf("ListExpired() error = %v", err)
	}
	if len(expired) != 0 {
		t.Errorf("ListExpired() at exact creation time returned %d, want 0", len(expired))
	}
}

func TestFileStore_DeleteSession(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Put(ctx, "session-a", KindOutput, "out.pdf", "", strings.NewReader("x")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	other, err := s.Put(ctx, "session-b", KindOutput, "keep.pdf", "", strings.NewReader("y"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	removed, err := s.DeleteSession(ctx, "session-a")
	if err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("DeleteSession() removed %d, want 3", removed)
	}

	if _, err := s.Stat(ctx, "session-b", other.ID); err != nil {
		t.Errorf("other session's artifact gone: %v", err)
	}
}

func TestFileStore_ReconcileAdoptsOrphans(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	// Simulate files left behind by a previous process whose index was
	// lost.
	sessionDir := filepath.Join(dataDir, "session-a")
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		t.Fatal(err)
	}
	orphan := filepath.Join(sessionDir, "orphan.pdf")
	if err := os.WriteFile(orphan, []byte("leftover"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-10 * time.Minute)
	if err := os.Chtimes(orphan, past, past); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStore(Options{DataDir: dataDir, Index: NewMemoryIndex()})
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()

	artifacts, err := s.ListSession(ctx, "session-a")
	if err != nil {
		t.Fatalf("ListSession() error = %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("ListSession() returned %d artifacts, want 1", len(artifacts))
	}

	a := artifacts[0]
	if a.Kind != KindOutput {
		t.Errorf("adopted Kind = %q, want %q", a.Kind, KindOutput)
	}
	// Adopted artifacts age from their file mtime, so they still expire.
	if got := a.CreatedAt; got.After(past.Add(time.Second)) || got.Before(past.Add(-time.Second)) {
		t.Errorf("adopted CreatedAt = %v, want ~%v", got, past)
	}

	expired, err := s.ListExpired(ctx, time.Now().Add(-2*time.Minute))
	if err != nil {
		t.Fatalf("ListExpired() error = %v", err)
	}
	if len(expired) != 1 {
		t.Errorf("adopted orphan not listed as expired")
	}
}

func TestFileStore_ReconcileDropsStaleRows(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	ix := NewMemoryIndex()
	stale := &Artifact{
		ID:           "gone",
		OwnerSession: "session-a",
		Kind:         KindOutput,
		Name:         "gone.pdf",
		Path:         filepath.Join(dataDir, "session-a", "gone"),
		CreatedAt:    time.Now().Add(-5 * time.Minute),
	}
	if err := ix.Insert(ctx, stale); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStore(Options{DataDir: dataDir, Index: ix})
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d after reconcile, want 0", count)
	}
}
