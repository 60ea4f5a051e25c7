// Package store implements the short-lived artifact store backing uploads
// and generated documents.
//
// Artifacts are written once into a per-session directory under the data
// directory and deleted shortly after, either explicitly by their owner or
// by the retention sweeper once the retention limit elapses. Metadata,
// including the creation timestamp the sweeper measures against, lives in a
// pluggable Index with SQLite and in-memory backends. The SQLite backend
// keeps timestamps across restarts; on startup the store reconciles the
// index against the files actually on disk, adopting orphans by modification
// time so nothing escapes the sweep.
//
// All session-facing operations enforce ownership: an artifact owned by a
// different session behaves exactly like one that never existed.
package store
