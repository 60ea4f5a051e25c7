package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Malikabakr/bank-project/pkg/batch"
	"github.com/Malikabakr/bank-project/pkg/batch/processor"
	"github.com/Malikabakr/bank-project/pkg/render"
	"github.com/Malikabakr/bank-project/pkg/server/middleware"
	"github.com/Malikabakr/bank-project/pkg/spreadsheet"
	"github.com/Malikabakr/bank-project/pkg/store"
	"github.com/Malikabakr/bank-project/pkg/telemetry/metrics"
)

// UploadHandler accepts a spreadsheet and starts a batch job.
//
// Request: multipart form with a "file" part (the workbook) and a
// "card_type" field. Response: 202 with the job ID; the client polls the
// batch endpoint for progress.
type UploadHandler struct {
	store          *store.FileStore
	tracker        *batch.Tracker
	processor      *processor.Processor
	metrics        *metrics.Collector
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewUploadHandler creates the upload handler.
func NewUploadHandler(s *store.FileStore, tr *batch.Tracker, p *processor.Processor, m *metrics.Collector, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{
		store:          s,
		tracker:        tr,
		processor:      p,
		metrics:        m,
		maxUploadBytes: maxUploadBytes,
		logger:         slog.Default().With("component", "server.upload"),
	}
}

// ServeHTTP implements http.Handler.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.metrics.RecordUpload("unknown", "rejected")
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "malformed multipart request")
		return
	}

	kind, err := render.ParseKind(r.FormValue("card_type"))
	if err != nil {
		h.metrics.RecordUpload("unknown", "rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.metrics.RecordUpload(string(kind), "rejected")
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	if err := spreadsheet.ValidateUpload(header.Filename, header.Size, h.maxUploadBytes); err != nil {
		h.metrics.RecordUpload(string(kind), "rejected")
		status := http.StatusBadRequest
		if errors.Is(err, spreadsheet.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err.Error())
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read upload")
		return
	}

	// The raw upload goes into the store too, so it is swept on the same
	// retention clock as the documents generated from it.
	if _, err := h.store.Put(r.Context(), sessionID, store.KindUpload,
		header.Filename, header.Header.Get("Content-Type"), bytes.NewReader(content)); err != nil {
		h.logger.Error("could not store upload", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	snap := h.tracker.Create(sessionID, header.Filename)
	h.metrics.RecordUpload(string(kind), "accepted")
	h.metrics.SetActiveJobs(h.tracker.Count())

	// Processing continues after this response; the job outlives the
	// request context.
	go h.processor.Process(context.Background(), sessionID, snap.JobID, kind,
		header.Filename, bytes.NewReader(content))

	h.logger.Info("batch job accepted",
		"job_id", snap.JobID,
		"session_id", sessionID,
		"filename", header.Filename,
		"card_kind", kind,
		"size", header.Size,
	)

	writeJSON(w, http.StatusAccepted, BatchAccepted{
		JobID:    snap.JobID,
		Filename: header.Filename,
		CardKind: string(kind),
	})
}
