package store

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options configures a FileStore.
type Options struct {
	// DataDir is the directory holding artifact files, one subdirectory
	// per owning session.
	DataDir string

	// MaxArtifactBytes caps the size of a single stored artifact. Zero
	// means no cap.
	MaxArtifactBytes int64

	// Index is the metadata index backend. Required.
	Index Index
}

// FileStore stores artifacts as files on disk, grouped by owning session,
// with metadata kept in an Index. All session-facing operations re-check
// ownership: an artifact owned by another session is indistinguishable from
// one that never existed.
type FileStore struct {
	dataDir string
	maxSize int64
	index   Index
	logger  *slog.Logger

	// now is swappable for tests.
	now func() time.Time

	// mu serializes mutating operations so a concurrent Delete and Purge
	// of the same artifact cannot interleave between file and index.
	mu sync.Mutex
}

// NewFileStore creates the data directory if needed, reconciles the index
// against the files actually on disk, and returns the store.
func NewFileStore(opts Options) (*FileStore, error) {
	if opts.Index == nil {
		return nil, errors.New("store: index is required")
	}

	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, NewWriteError(opts.DataDir, err)
	}

	s := &FileStore{
		dataDir: opts.DataDir,
		maxSize: opts.MaxArtifactBytes,
		index:   opts.Index,
		logger:  slog.Default().With("component", "store"),
		now:     time.Now,
	}

	if err := s.reconcile(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Put writes the content to disk under the owning session and records it in
// the index. The returned artifact carries the assigned ID and the creation
// timestamp. If the content exceeds the store capacity, Put fails with
// ErrStoreFull and leaves nothing behind.
func (s *FileStore) Put(ctx context.Context, sessionID string, kind Kind, name, contentType string, content io.Reader) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionDir := filepath.Join(s.dataDir, sessionID)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return nil, NewWriteError(sessionDir, err)
	}

	id := uuid.New().String()
	path := filepath.Join(sessionDir, id)

	size, err := s.writeFile(path, content)
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	a := &Artifact{
		ID:           id,
		OwnerSession: sessionID,
		Kind:         kind,
		Name:         name,
		ContentType:  contentType,
		Size:         size,
		Path:         path,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.index.Insert(ctx, a); err != nil {
		// Keep file and index consistent: an unindexed file would be
		// invisible to the sweeper until the next reconcile.
		os.Remove(path)
		return nil, err
	}

	s.logger.Debug("artifact stored",
		"id", a.ID,
		"owner", a.OwnerSession,
		"kind", a.Kind,
		"size", a.Size,
	)

	return a, nil
}

// writeFile copies content to path, enforcing the size cap.
func (s *FileStore) writeFile(path string, content io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, NewWriteError(path, err)
	}

	src := content
	if s.maxSize > 0 {
		// Read one byte past the cap so overflow is detectable.
		src = io.LimitReader(content, s.maxSize+1)
	}

	size, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, NewWriteError(path, err)
	}
	if s.maxSize > 0 && size > s.maxSize {
		return 0, ErrStoreFull
	}

	return size, nil
}

// Get returns the artifact metadata and an open reader for its content. The
// caller owns the reader and must close it. Artifacts owned by another
// session, already swept, or never stored all return ErrNotFound.
func (s *FileStore) Get(ctx context.Context, sessionID, id string) (*Artifact, io.ReadCloser, error) {
	a, err := s.Stat(ctx, sessionID, id)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(a.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// File gone but row present: swept out from under us.
			return nil, nil, ErrNotFound
		}
		return nil, nil, NewWriteError(a.Path, err)
	}

	return a, f, nil
}

// Stat returns the artifact metadata without opening the file. Ownership is
// checked the same way Get checks it.
func (s *FileStore) Stat(ctx context.Context, sessionID, id string) (*Artifact, error) {
	a, err := s.index.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OwnerSession != sessionID {
		return nil, ErrNotFound
	}
	return a, nil
}

// Delete removes the artifact if it exists and is owned by the session.
// Deleting an absent or foreign artifact succeeds without effect, so Delete
// is safe to race with the sweeper.
func (s *FileStore) Delete(ctx context.Context, sessionID, id string) error {
	a, err := s.index.Lookup(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if a.OwnerSession != sessionID {
		return nil
	}

	return s.Purge(ctx, id)
}

// Purge removes the artifact regardless of owning session. It is the
// sweeper's deletion primitive. A missing file is not an error; the index
// row is removed either way.
func (s *FileStore) Purge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.index.Lookup(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := os.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return NewWriteError(a.Path, err)
	}

	if err := s.index.Remove(ctx, id); err != nil {
		return err
	}

	// Session directories disappear with their last artifact. ENOTEMPTY
	// is expected and ignored.
	os.Remove(filepath.Dir(a.Path))

	return nil
}

// ListExpired returns all artifacts created strictly before the cutoff.
func (s *FileStore) ListExpired(ctx context.Context, cutoff time.Time) ([]*Artifact, error) {
	return s.index.ListExpired(ctx, cutoff)
}

// ListSession returns all artifacts owned by the session.
func (s *FileStore) ListSession(ctx context.Context, sessionID string) ([]*Artifact, error) {
	return s.index.ListSession(ctx, sessionID)
}

// DeleteSession removes every artifact owned by the session and reports how
// many were removed. Failures on individual artifacts do not stop the rest.
func (s *FileStore) DeleteSession(ctx context.Context, sessionID string) (int, error) {
	artifacts, err := s.index.ListSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	removed := 0
	var firstErr error
	for _, a := range artifacts {
		if err := s.Purge(ctx, a.ID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Warn("failed to remove session artifact",
				"id", a.ID,
				"owner", sessionID,
				"error", err,
			)
			continue
		}
		removed++
	}

	return removed, firstErr
}

// Count returns the number of stored artifacts.
func (s *FileStore) Count(ctx context.Context) (int64, error) {
	return s.index.Count(ctx)
}

// Close closes the underlying index.
func (s *FileStore) Close() error {
	return s.index.Close()
}

// reconcile brings the index and the data directory back into agreement
// after a restart. Files with no index row are adopted using their
// modification time as the creation timestamp, so they still age out even
// when the index was lost. Index rows whose file is gone are dropped.
func (s *FileStore) reconcile(ctx context.Context) error {
	adopted, dropped := 0, 0

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return NewWriteError(s.dataDir, err)
	}

	for _, sessionEntry := range entries {
		if !sessionEntry.IsDir() {
			continue
		}
		sessionID := sessionEntry.Name()
		sessionDir := filepath.Join(s.dataDir, sessionID)

		files, err := os.ReadDir(sessionDir)
		if err != nil {
			s.logger.Warn("skipping unreadable session directory", "dir", sessionDir, "error", err)
			continue
		}

		for _, fe := range files {
			if fe.IsDir() {
				continue
			}

			id := fe.Name()
			if _, err := s.index.Lookup(ctx, id); err == nil {
				continue
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}

			info, err := fe.Info()
			if err != nil {
				s.logger.Warn("skipping unreadable artifact file", "path", filepath.Join(sessionDir, id), "error", err)
				continue
			}

			a := &Artifact{
				ID:           id,
				OwnerSession: sessionID,
				Kind:         kindFromName(id),
				Name:         id,
				Size:         info.Size(),
				Path:         filepath.Join(sessionDir, id),
				CreatedAt:    info.ModTime().UTC(),
			}
			if err := s.index.Insert(ctx, a); err != nil {
				return err
			}
			adopted++
		}
	}

	// Drop rows whose file disappeared while the process was down.
	stale, err := s.index.ListExpired(ctx, s.now().Add(24*time.Hour))
	if err != nil {
		return err
	}
	for _, a := range stale {
		if _, err := os.Stat(a.Path); errors.Is(err, fs.ErrNotExist) {
			if err := s.index.Remove(ctx, a.ID); err != nil {
				return err
			}
			dropped++
		}
	}

	if adopted > 0 || dropped > 0 {
		s.logger.Info("store reconciled",
			"adopted_files", adopted,
			"dropped_rows", dropped,
		)
	}

	return nil
}

// kindFromName classifies an adopted orphan file by extension. Generated
// documents carry .pdf or .zip suffixes in their client-facing names; bare
// IDs default to uploads.
func kindFromName(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".zip":
		return KindOutput
	default:
		return KindUpload
	}
}
