// Package retention implements the background sweeper that deletes stored
// artifacts once they outlive the retention limit.
//
// A Sweeper runs sweep cycles over the artifact store: each cycle lists
// everything created at or before now minus the retention limit and deletes
// it, one artifact at a time. Deletion failures are logged and retried on
// the next cycle rather than aborting the sweep. The Scheduler drives
// cycles either on a fixed interval (the default, once a minute) or on a
// cron expression.
//
// Because expiry is measured from creation timestamps persisted by the
// store, sweeping picks up where it left off after a restart: anything that
// expired while the process was down is deleted on the first cycle.
package retention
