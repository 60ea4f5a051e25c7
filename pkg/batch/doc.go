// Package batch tracks the lifecycle and progress of spreadsheet processing
// jobs.
//
// A job is created when an upload is accepted, started once the row count is
// known, advanced (or skipped) one row at a time, and finished or failed
// exactly once. Status moves forward only and the row counters never exceed
// the total; Snapshot reads take the same lock the writers take, so a poll
// never observes a half-updated job.
//
// Tracker state is in-memory and ephemeral. Terminal job records are evicted
// by the retention sweeper on the same cutoff as the stored artifacts, and a
// restart forgets in-flight jobs: pollers see "not found" and re-upload,
// while the orphaned files still age out of the store.
package batch
