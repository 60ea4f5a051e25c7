package store

import "time"

// Kind classifies an artifact by how it entered the store.
type Kind string

const (
	// KindUpload is a client-uploaded spreadsheet or template.
	KindUpload Kind = "upload"

	// KindOutput is a generated document (per-row PDF or batch zip).
	KindOutput Kind = "generated_output"
)

// Artifact is a single file-like object held in the store. Artifacts are
// immutable after creation: they are written once and later deleted, either
// explicitly or by the retention sweeper.
type Artifact struct {
	// ID is the opaque unique identifier assigned at write time.
	ID string

	// OwnerSession is the session that created the artifact. Every lookup
	// re-checks ownership; artifacts are never reachable across sessions.
	OwnerSession string

	// Kind is the artifact classification.
	Kind Kind

	// Name is the client-facing filename (e.g., "Ali Hassan , 1234.pdf").
	Name string

	// ContentType is the declared MIME type, if known.
	ContentType string

	// Size is the artifact size in bytes.
	Size int64

	// Path is the absolute location of the artifact file on disk.
	Path string

	// CreatedAt is the creation timestamp, set at write time and immutable.
	// The retention sweeper measures artifact age against this value.
	CreatedAt time.Time
}

// Age returns how old the artifact is at the given instant.
func (a *Artifact) Age(now time.Time) time.Duration {
	return now.Sub(a.CreatedAt)
}

// Expired reports whether the artifact has outlived the retention limit at
// the given instant.
func (a *Artifact) Expired(now time.Time, limit time.Duration) bool {
	return a.Age(now) > limit
}
