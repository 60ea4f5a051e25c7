package processor

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/Malikabakr/bank-project/pkg/batch"
	"github.com/Malikabakr/bank-project/pkg/render"
	"github.com/Malikabakr/bank-project/pkg/spreadsheet"
	"github.com/Malikabakr/bank-project/pkg/store"
	"github.com/Malikabakr/bank-project/pkg/telemetry/metrics"
)

// ArtifactStore is the slice of the store the processor needs.
type ArtifactStore interface {
	Put(ctx context.Context, sessionID string, kind store.Kind, name, contentType string, content io.Reader) (*store.Artifact, error)
}

// Options configures a Processor.
type Options struct {
	// Store receives the generated documents.
	Store ArtifactStore

	// Tracker is updated as rows complete.
	Tracker *batch.Tracker

	// Renderer produces the PDFs.
	Renderer *render.Renderer

	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Collector

	// RowTimeout bounds rendering of a single row. Zero means no bound.
	RowTimeout time.Duration
}

// Processor turns an uploaded workbook into stored PDFs, one per data row,
// plus a zip of the lot. Rows that fail to render are skipped and counted;
// the batch fails only when parsing fails or no row renders at all.
type Processor struct {
	store      ArtifactStore
	tracker    *batch.Tracker
	renderer   *render.Renderer
	metrics    *metrics.Collector
	rowTimeout time.Duration
	logger     *slog.Logger
}

// New creates a batch processor.
func New(opts Options) *Processor {
	return &Processor{
		store:      opts.Store,
		tracker:    opts.Tracker,
		renderer:   opts.Renderer,
		metrics:    opts.Metrics,
		rowTimeout: opts.RowTimeout,
		logger:     slog.Default().With("component", "batch.processor"),
	}
}

// Process runs one batch job to completion. It is synchronous; the upload
// handler starts it on its own goroutine. Every outcome ends in exactly one
// terminal tracker state.
func (p *Processor) Process(ctx context.Context, sessionID, jobID string, kind render.CardKind, uploadName string, content io.Reader) {
	defer p.metrics.SetActiveJobs(p.tracker.Count())

	sheet, err := spreadsheet.Parse(content, uploadName)
	if err != nil {
		p.fail(jobID, fmt.Sprintf("could not read spreadsheet: %v", err))
		return
	}

	if err := p.tracker.Start(jobID, len(sheet.Rows)); err != nil {
		p.logger.Error("could not start batch job", "job_id", jobID, "error", err)
		return
	}

	var zipBuf bytes.Buffer
	zw := zip.NewWriter(&zipBuf)

	rendered := 0
	for i, row := range sheet.Rows {
		if ctx.Err() != nil {
			p.fail(jobID, "processing cancelled")
			return
		}

		name := outputName(row)
		start := time.Now()

		pdf, err := p.renderRow(ctx, row, kind, i+1)
		if err != nil {
			p.skip(jobID, kind, i+1, start, err)
			continue
		}

		a, err := p.store.Put(ctx, sessionID, store.KindOutput, name, "application/pdf", bytes.NewReader(pdf))
		if err != nil {
			p.skip(jobID, kind, i+1, start, err)
			continue
		}

		w, err := zw.Create(name)
		if err == nil {
			_, err = w.Write(pdf)
		}
		if err != nil {
			p.fail(jobID, fmt.Sprintf("could not build zip: %v", err))
			return
		}

		if err := p.tracker.Advance(jobID, a.ID); err != nil {
			p.logger.Error("could not advance batch job", "job_id", jobID, "row", i+1, "error", err)
		}
		p.metrics.RecordRowRendered(string(kind), time.Since(start))
		rendered++
	}

	if rendered == 0 {
		p.fail(jobID, "no rows could be rendered")
		return
	}

	if err := zw.Close(); err != nil {
		p.fail(jobID, fmt.Sprintf("could not finalize zip: %v", err))
		return
	}

	zipArtifact, err := p.store.Put(ctx, sessionID, store.KindOutput,
		zipName(uploadName, kind), "application/zip", bytes.NewReader(zipBuf.Bytes()))
	if err != nil {
		p.fail(jobID, fmt.Sprintf("could not store zip: %v", err))
		return
	}

	p.tracker.SetZip(jobID, zipArtifact.ID)
	if err := p.tracker.Finish(jobID); err != nil {
		p.logger.Error("could not finish batch job", "job_id", jobID, "error", err)
	}
}

// renderRow renders one row under the configured timeout. The render runs
// on its own goroutine so a wedged row cannot hold the batch past its
// deadline; a timed-out render's result is discarded when it eventually
// returns.
func (p *Processor) renderRow(ctx context.Context, row spreadsheet.Row, kind render.CardKind, rowIndex int) ([]byte, error) {
	if p.rowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.rowTimeout)
		defer cancel()
	}

	type result struct {
		pdf []byte
		err error
	}
	ch := make(chan result, 1)

	go func() {
		pdf, err := p.renderer.RenderCard(row, kind)
		ch <- result{pdf, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, render.NewRenderError(rowIndex, kind, res.err)
		}
		return res.pdf, nil
	case <-ctx.Done():
		return nil, render.NewRenderError(rowIndex, kind, ctx.Err())
	}
}

// skip records one unrenderable row and moves on.
func (p *Processor) skip(jobID string, kind render.CardKind, rowIndex int, start time.Time, err error) {
	p.tracker.Skip(jobID)
	p.metrics.RecordRowSkipped(string(kind), time.Since(start))
	p.logger.Warn("skipping row",
		"job_id", jobID,
		"row", rowIndex,
		"error", err,
	)
}

// fail marks the job failed.
func (p *Processor) fail(jobID, message string) {
	if err := p.tracker.Fail(jobID, message); err != nil {
		p.logger.Error("could not fail batch job", "job_id", jobID, "error", err)
	}
}

// outputName builds the per-row PDF filename: "<cardholder> , <digits>.pdf".
// The cardholder name is reduced to filename-safe characters.
func outputName(row spreadsheet.Row) string {
	name := sanitizeFilename(row.Get(spreadsheet.FieldName))
	if name == "" {
		name = "card"
	}
	return fmt.Sprintf("%s , %s.pdf", name, row.Get(spreadsheet.FieldLastFourDigits))
}

// sanitizeFilename keeps letters, digits, spaces, dots, dashes, and
// underscores, collapsing runs of whitespace.
func sanitizeFilename(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// zipName derives the batch zip filename from the upload and card kind.
func zipName(uploadName string, kind render.CardKind) string {
	base := strings.TrimSuffix(filepath.Base(uploadName), filepath.Ext(uploadName))
	base = sanitizeFilename(base)
	if base == "" {
		base = "cards"
	}
	return fmt.Sprintf("%s_%s.zip", base, kind)
}
