// Package processor runs batch jobs: it parses an uploaded workbook,
// renders one PDF per data row, stores each document plus a zip of the
// whole batch, and drives the job tracker from start to a terminal state.
//
// Row failures are skipped, not fatal: the batch completes with a skipped
// count and fails only when the workbook cannot be parsed or no row renders
// at all. Each row renders under its own timeout so one bad record cannot
// stall the batch indefinitely.
package processor
