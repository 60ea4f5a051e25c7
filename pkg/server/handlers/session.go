package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Malikabakr/bank-project/pkg/batch"
	"github.com/Malikabakr/bank-project/pkg/server/middleware"
	"github.com/Malikabakr/bank-project/pkg/store"
)

// SessionHandler wipes everything the calling session owns: stored
// artifacts and job records. The retention sweeper would get there within
// two minutes anyway; this is the immediate path.
type SessionHandler struct {
	store   *store.FileStore
	tracker *batch.Tracker
	logger  *slog.Logger
}

// NewSessionHandler creates the session wipe handler.
func NewSessionHandler(s *store.FileStore, tr *batch.Tracker) *SessionHandler {
	return &SessionHandler{
		store:   s,
		tracker: tr,
		logger:  slog.Default().With("component", "server.session"),
	}
}

// ServeHTTP implements http.Handler.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	removed, err := h.store.DeleteSession(r.Context(), sessionID)
	if err != nil {
		// Partial removal still counts; the sweeper retries the rest.
		h.logger.Warn("session wipe incomplete", "session_id", sessionID, "error", err)
	}

	jobs := h.tracker.EvictSession(sessionID)

	h.logger.Info("session cleared",
		"session_id", sessionID,
		"artifacts_removed", removed,
		"jobs_removed", jobs,
	)

	writeJSON(w, http.StatusOK, SessionCleared{
		ArtifactsRemoved: removed,
		JobsRemoved:      jobs,
	})
}
