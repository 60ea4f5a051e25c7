package batch

import "time"

// Status is the lifecycle state of a batch job. Transitions are forward
// only: pending -> running -> completed, with failed reachable from pending
// or running. Terminal states never change.
type Status string

const (
	// StatusPending is a created job that has not started processing.
	StatusPending Status = "pending"

	// StatusRunning is a job whose rows are being processed.
	StatusRunning Status = "running"

	// StatusCompleted is a job whose every row was processed or skipped.
	StatusCompleted Status = "completed"

	// StatusFailed is a job that aborted before completing.
	StatusFailed Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// job is the tracker's internal record. All access goes through the
// tracker's lock; callers only ever see Snapshot copies.
type job struct {
	id           string
	ownerSession string
	filename     string
	status       Status
	total        int
	completed    int
	skipped      int
	artifacts    []string
	zipID        string
	errMsg       string
	createdAt    time.Time
	updatedAt    time.Time
}

// Snapshot is a self-consistent view of a job at one instant. Counters and
// status are read together under the tracker's lock, so a snapshot never
// mixes values from different moments.
type Snapshot struct {
	// JobID identifies the job.
	JobID string `json:"job_id"`

	// Filename is the name of the uploaded spreadsheet.
	Filename string `json:"filename"`

	// Status is the job lifecycle state.
	Status Status `json:"status"`

	// Total is the number of rows in the batch. Zero until the job starts.
	Total int `json:"total"`

	// Completed is the number of rows rendered successfully.
	Completed int `json:"completed"`

	// Skipped is the number of rows that failed to render and were passed
	// over.
	Skipped int `json:"skipped"`

	// Percent is the client-facing progress figure: 0 while pending, 5-90
	// while running, 100 once completed, -1 on failure.
	Percent int `json:"percent"`

	// ProducedArtifacts are the ids of the per-row PDFs, in input row order.
	// Each id is appended as its row completes, so a client can fetch
	// documents while the job is still running.
	ProducedArtifacts []string `json:"produced_artifacts"`

	// ZipArtifactID is the stored zip of generated documents, set shortly
	// before the job completes.
	ZipArtifactID string `json:"zip_artifact_id,omitempty"`

	// Error is the failure message for failed jobs.
	Error string `json:"error,omitempty"`

	// UpdatedAt is the time of the last state change.
	UpdatedAt time.Time `json:"updated_at"`
}

// percent maps job state onto the progress scale clients poll for.
func (j *job) percent() int {
	switch j.status {
	case StatusPending:
		return 0
	case StatusCompleted:
		return 100
	case StatusFailed:
		return -1
	}

	// Running: advance from 5 to 90 as rows finish.
	if j.total <= 0 {
		return 5
	}
	p := 5 + (j.completed+j.skipped)*85/j.total
	if p > 90 {
		p = 90
	}
	return p
}

// snapshot copies the job. Caller holds the tracker's lock. The artifact
// sequence is copied so the caller cannot observe later appends.
func (j *job) snapshot() Snapshot {
	artifacts := make([]string, len(j.artifacts))
	copy(artifacts, j.artifacts)

	return Snapshot{
		JobID:             j.id,
		Filename:          j.filename,
		Status:            j.status,
		Total:             j.total,
		Completed:         j.completed,
		Skipped:           j.skipped,
		Percent:           j.percent(),
		ProducedArtifacts: artifacts,
		ZipArtifactID:     j.zipID,
		Error:             j.errMsg,
		UpdatedAt:         j.updatedAt,
	}
}
