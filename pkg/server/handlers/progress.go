package handlers

import (
	"errors"
	"net/http"

	"github.com/Malikabakr/bank-project/pkg/batch"
	"github.com/Malikabakr/bank-project/pkg/server/middleware"
)

// ProgressHandler reports a batch job's snapshot. Clients poll it while a
// job runs. A job owned by another session, evicted, or never created all
// answer 404; the client treats that as "expired, re-upload".
type ProgressHandler struct {
	tracker *batch.Tracker
}

// NewProgressHandler creates the progress handler.
func NewProgressHandler(tr *batch.Tracker) *ProgressHandler {
	return &ProgressHandler{tracker: tr}
}

// ServeHTTP implements http.Handler.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	jobID := r.PathValue("id")

	snap, err := h.tracker.Snapshot(sessionID, jobID)
	if err != nil {
		if errors.Is(err, batch.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not read job state")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
