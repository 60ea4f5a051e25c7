package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Malikabakr/bank-project/pkg/render"
	"github.com/Malikabakr/bank-project/pkg/server/middleware"
	"github.com/Malikabakr/bank-project/pkg/spreadsheet"
	"github.com/Malikabakr/bank-project/pkg/store"
	"github.com/Malikabakr/bank-project/pkg/telemetry/metrics"
)

// ConvertHandler renders a whole spreadsheet as one tabular PDF. Unlike the
// batch endpoint it is synchronous: the sheet is parsed, rendered, and
// stored within the request, and the response names the stored artifact.
type ConvertHandler struct {
	store          *store.FileStore
	renderer       *render.Renderer
	metrics        *metrics.Collector
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewConvertHandler creates the table conversion handler.
func NewConvertHandler(s *store.FileStore, rd *render.Renderer, m *metrics.Collector, maxUploadBytes int64) *ConvertHandler {
	return &ConvertHandler{
		store:          s,
		renderer:       rd,
		metrics:        m,
		maxUploadBytes: maxUploadBytes,
		logger:         slog.Default().With("component", "server.convert"),
	}
}

// ServeHTTP implements http.Handler.
func (h *ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "malformed multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	if err := spreadsheet.ValidateUpload(header.Filename, header.Size, h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sheet, err := spreadsheet.Parse(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not read spreadsheet: %v", err))
		return
	}

	pdf, err := h.renderer.RenderTable(sheet)
	if err != nil {
		h.logger.Error("table render failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "could not render table")
		return
	}

	base := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	name := base + ".pdf"

	a, err := h.store.Put(r.Context(), sessionID, store.KindOutput, name,
		"application/pdf", bytes.NewReader(pdf))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not store document")
		return
	}

	h.metrics.RecordUpload("table", "accepted")

	writeJSON(w, http.StatusCreated, ConvertAccepted{
		ArtifactID: a.ID,
		Name:       a.Name,
	})
}
