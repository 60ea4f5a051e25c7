package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Malikabakr/bank-project/pkg/server/middleware"
	"github.com/Malikabakr/bank-project/pkg/store"
)

// ArtifactHandler serves stored artifacts back to their owning session:
// generated PDFs, batch zips, and nothing of anyone else's. Expired or
// foreign artifacts answer 404.
type ArtifactHandler struct {
	store  *store.FileStore
	logger *slog.Logger
}

// NewArtifactHandler creates the artifact download handler.
func NewArtifactHandler(s *store.FileStore) *ArtifactHandler {
	return &ArtifactHandler{
		store:  s,
		logger: slog.Default().With("component", "server.artifact"),
	}
}

// ServeHTTP implements http.Handler.
func (h *ArtifactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	artifactID := r.PathValue("id")

	a, rc, err := h.store.Get(r.Context(), sessionID, artifactID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "artifact not found or expired")
			return
		}
		h.logger.Error("could not open artifact", "artifact_id", artifactID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not read artifact")
		return
	}
	defer rc.Close()

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are already out; nothing to do but log.
		h.logger.Warn("artifact transfer interrupted", "artifact_id", artifactID, "error", err)
	}
}
