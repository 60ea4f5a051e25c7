package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// schemaVersion is the current metadata index schema version.
const schemaVersion = 1

// schema contains the SQL statements to create the artifact index schema.
const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
    id TEXT PRIMARY KEY,
    owner_session TEXT NOT NULL,
    kind TEXT NOT NULL,
    name TEXT NOT NULL,
    content_type TEXT,
    size INTEGER NOT NULL,
    path TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_artifacts_owner_session ON artifacts(owner_session);
CREATE INDEX IF NOT EXISTS idx_artifacts_created_at ON artifacts(created_at);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

const (
	insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`
	getSchemaVersion    = `SELECT MAX(version) FROM schema_version`
)

// SQLiteIndexConfig contains configuration for the SQLite index backend.
type SQLiteIndexConfig struct {
	// Path is the SQLite database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int

	// WALMode enables write-ahead logging.
	WALMode bool

	// BusyTimeout is how long a connection waits on a locked database.
	BusyTimeout time.Duration
}

// DefaultSQLiteIndexConfig returns a SQLite index configuration with sensible
// defaults.
func DefaultSQLiteIndexConfig() *SQLiteIndexConfig {
	return &SQLiteIndexConfig{
		Path:         "data/artifacts.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteIndex implements the Index interface using SQLite. Creation
// timestamps live in the database, so artifact ages survive a process
// restart.
type SQLiteIndex struct {
	db     *sql.DB
	config *SQLiteIndexConfig
	logger *slog.Logger
}

// NewSQLiteIndex opens (and if necessary creates) the SQLite metadata index.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteIndex(config *SQLiteIndexConfig) (*SQLiteIndex, error) {
	if config == nil {
		config = DefaultSQLiteIndexConfig()
	}

	logger := slog.Default().With("component", "store.index.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewIndexError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	ix := &SQLiteIndex{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := ix.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite artifact index initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return ix, nil
}

// initialize sets up the database schema and enables WAL mode.
func (ix *SQLiteIndex) initialize() error {
	if ix.config.WALMode {
		if _, err := ix.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewIndexError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := ix.config.BusyTimeout.Milliseconds()
	if _, err := ix.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewIndexError("sqlite", "set_busy_timeout", err)
	}

	if _, err := ix.db.Exec(schema); err != nil {
		return NewIndexError("sqlite", "create_schema", err)
	}

	if _, err := ix.db.Exec(insertSchemaVersion, schemaVersion); err != nil {
		return NewIndexError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := ix.db.QueryRow(getSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewIndexError("sqlite", "get_schema_version", err)
	}
	if version != schemaVersion {
		return NewIndexError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", schemaVersion, version))
	}

	return nil
}

// Insert records a new artifact.
func (ix *SQLiteIndex) Insert(ctx context.Context, a *Artifact) error {
	query := `
		INSERT INTO artifacts (id, owner_session, kind, name, content_type, size, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var contentType interface{}
	if a.ContentType != "" {
		contentType = a.ContentType
	}

	_, err := ix.db.ExecContext(ctx, query,
		a.ID, a.OwnerSession, string(a.Kind), a.Name, contentType, a.Size, a.Path, a.CreatedAt.UTC(),
	)
	if err != nil {
		return NewIndexError("sqlite", "insert", err)
	}

	return nil
}

// Lookup returns the artifact with the given id, or ErrNotFound.
func (ix *SQLiteIndex) Lookup(ctx context.Context, id string) (*Artifact, error) {
	query := `
		SELECT id, owner_session, kind, name, content_type, size, path, created_at
		FROM artifacts WHERE id = ?
	`

	a, err := ix.scanRow(ix.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewIndexError("sqlite", "lookup", err)
	}

	return a, nil
}

// Remove deletes the record for id. Removing an absent id is not an error.
func (ix *SQLiteIndex) Remove(ctx context.Context, id string) error {
	_, err := ix.db.ExecContext(ctx, `DELETE FROM artifacts WHERE id = ?`, id)
	if err != nil {
		return NewIndexError("sqlite", "remove", err)
	}
	return nil
}

// ListExpired returns all artifacts created strictly before the cutoff. An
// artifact created exactly at the cutoff has not yet outlived the limit.
func (ix *SQLiteIndex) ListExpired(ctx context.Context, cutoff time.Time) ([]*Artifact, error) {
	query := `
		SELECT id, owner_session, kind, name, content_type, size, path, created_at
		FROM artifacts WHERE created_at < ? ORDER BY created_at ASC
	`

	return ix.list(ctx, "list_expired", query, cutoff.UTC())
}

// ListSession returns all artifacts owned by the given session.
func (ix *SQLiteIndex) ListSession(ctx context.Context, sessionID string) ([]*Artifact, error) {
	query := `
		SELECT id, owner_session, kind, name, content_type, size, path, created_at
		FROM artifacts WHERE owner_session = ? ORDER BY created_at ASC
	`

	return ix.list(ctx, "list_session", query, sessionID)
}

// Count returns the number of indexed artifacts.
func (ix *SQLiteIndex) Count(ctx context.Context) (int64, error) {
	var count int64
	err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artifacts`).Scan(&count)
	if err != nil {
		return 0, NewIndexError("sqlite", "count", err)
	}
	return count, nil
}

// Close closes the database connection.
func (ix *SQLiteIndex) Close() error {
	if err := ix.db.Close(); err != nil {
		return NewIndexError("sqlite", "close", err)
	}
	return nil
}

func (ix *SQLiteIndex) list(ctx context.Context, op, query string, args ...interface{}) ([]*Artifact, error) {
	rows, err := ix.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewIndexError("sqlite", op, err)
	}
	defer rows.Close()

	var results []*Artifact
	for rows.Next() {
		a, err := ix.scanRow(rows)
		if err != nil {
			return nil, NewIndexError("sqlite", "scan", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, NewIndexError("sqlite", op, err)
	}

	return results, nil
}

// scanner abstracts sql.Row and sql.Rows for row scanning.
type scanner interface {
	Scan(dest ...interface{}) error
}

func (ix *SQLiteIndex) scanRow(row scanner) (*Artifact, error) {
	var (
		a           Artifact
		kind        string
		contentType sql.NullString
		createdAt   time.Time
	)

	err := row.Scan(&a.ID, &a.OwnerSession, &kind, &a.Name, &contentType, &a.Size, &a.Path, &createdAt)
	if err != nil {
		return nil, err
	}

	a.Kind = Kind(kind)
	a.ContentType = contentType.String
	a.CreatedAt = createdAt

	return &a, nil
}
