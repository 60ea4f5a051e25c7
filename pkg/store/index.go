package store

import (
	"context"
	"sync"
	"time"
)

// Index is the metadata index behind the file store. It records, for every
// artifact file on disk, the owning session and the creation timestamp, so
// ownership checks and expiry queries never depend on filesystem metadata
// alone.
type Index interface {
	// Insert records a new artifact.
	Insert(ctx context.Context, a *Artifact) error

	// Lookup returns the artifact with the given id, or ErrNotFound.
	Lookup(ctx context.Context, id string) (*Artifact, error)

	// Remove deletes the record for id. Removing an absent id is not an
	// error.
	Remove(ctx context.Context, id string) error

	// ListExpired returns all artifacts created strictly before the cutoff.
	// It is a pure query with no side effects.
	ListExpired(ctx context.Context, cutoff time.Time) ([]*Artifact, error)

	// ListSession returns all artifacts owned by the given session.
	ListSession(ctx context.Context, sessionID string) ([]*Artifact, error)

	// Count returns the number of indexed artifacts.
	Count(ctx context.Context) (int64, error)

	// Close releases resources held by the index.
	Close() error
}

// MemoryIndex implements Index using an in-memory map. Creation timestamps do
// not survive a restart; the file store falls back to file modification times
// when rebuilding. Intended for tests and for deployments that accept
// mtime-based retention.
type MemoryIndex struct {
	records map[string]*Artifact
	mu      sync.RWMutex
}

// NewMemoryIndex creates a new in-memory metadata index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		records: make(map[string]*Artifact),
	}
}

// Insert records a new artifact.
func (ix *MemoryIndex) Insert(ctx context.Context, a *Artifact) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	// Copy to keep the index immune to caller mutation.
	rec := *a
	ix.records[a.ID] = &rec
	return nil
}

// Lookup returns the artifact with the given id, or ErrNotFound.
func (ix *MemoryIndex) Lookup(ctx context.Context, id string) (*Artifact, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	rec, ok := ix.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// Remove deletes the record for id.
func (ix *MemoryIndex) Remove(ctx context.Context, id string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	delete(ix.records, id)
	return nil
}

// ListExpired returns all artifacts created strictly before the cutoff. An
// artifact created exactly at the cutoff has not yet outlived the limit.
func (ix *MemoryIndex) ListExpired(ctx context.Context, cutoff time.Time) ([]*Artifact, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var results []*Artifact
	for _, rec := range ix.records {
		if rec.CreatedAt.Before(cutoff) {
			cp := *rec
			results = append(results, &cp)
		}
	}
	return results, nil
}

// ListSession returns all artifacts owned by the given session.
func (ix *MemoryIndex) ListSession(ctx context.Context, sessionID string) ([]*Artifact, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var results []*Artifact
	for _, rec := range ix.records {
		if rec.OwnerSession == sessionID {
			cp := *rec
			results = append(results, &cp)
		}
	}
	return results, nil
}

// Count returns the number of indexed artifacts.
func (ix *MemoryIndex) Count(ctx context.Context) (int64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return int64(len(ix.records)), nil
}

// Close releases the index contents.
func (ix *MemoryIndex) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.records = make(map[string]*Artifact)
	return nil
}
