package render

import (
	"bytes"
	"log/slog"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/Malikabakr/bank-project/pkg/render/arabictext"
	"github.com/Malikabakr/bank-project/pkg/spreadsheet"
)

// Font family names registered per document.
const (
	arabicFamily = "notonaskh"
	latinFamily  = "latinface"
	coreFamily   = "Times"
)

// Options configures a Renderer.
type Options struct {
	// ArabicFontPath is a TTF font with Arabic glyph coverage. Without
	// it, shaped fields print unshaped in the Latin face.
	ArabicFontPath string

	// LatinFontPath is an optional TTF for Latin text. Empty falls back
	// to the built-in Times face.
	LatinFontPath string
}

// Renderer produces card delivery PDFs from spreadsheet rows. A Renderer is
// safe for concurrent use; each call builds an independent document.
type Renderer struct {
	opts          Options
	hasArabicFont bool
	hasLatinFont  bool
	logger        *slog.Logger
}

// NewRenderer probes the configured fonts and returns a renderer. Missing
// font files degrade rendering rather than failing it.
func NewRenderer(opts Options) *Renderer {
	logger := slog.Default().With("component", "render")

	r := &Renderer{
		opts:   opts,
		logger: logger,
	}

	if opts.ArabicFontPath != "" {
		if _, err := os.Stat(opts.ArabicFontPath); err == nil {
			r.hasArabicFont = true
		} else {
			logger.Warn("arabic font not found, shaped text will degrade",
				"path", opts.ArabicFontPath,
			)
		}
	}
	if opts.LatinFontPath != "" {
		if _, err := os.Stat(opts.LatinFontPath); err == nil {
			r.hasLatinFont = true
		} else {
			logger.Warn("latin font not found, falling back to built-in face",
				"path", opts.LatinFontPath,
			)
		}
	}

	return r
}

// newDocument creates a page of the given size with the renderer's fonts
// registered.
func (r *Renderer) newDocument(w, h float64) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})

	if r.hasArabicFont {
		pdf.AddUTF8Font(arabicFamily, "", r.opts.ArabicFontPath)
	}
	if r.hasLatinFont {
		pdf.AddUTF8Font(latinFamily, "", r.opts.LatinFontPath)
	}

	return pdf
}

// latinFace returns the family to use for unshaped text.
func (r *Renderer) latinFace() string {
	if r.hasLatinFont {
		return latinFamily
	}
	return coreFamily
}

// RenderCard lays one row out on a B5 page using the kind's field
// positions and returns the PDF bytes.
func (r *Renderer) RenderCard(row spreadsheet.Row, kind CardKind) ([]byte, error) {
	layout, ok := layouts[kind]
	if !ok {
		return nil, NewRenderError(0, kind, os.ErrInvalid)
	}

	pdf := r.newDocument(b5Width, b5Height)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	for _, spec := range layout {
		val := row.Get(spec.field)
		if val == "" {
			continue
		}

		family, text := r.latinFace(), val
		if spec.shaped && arabictext.IsArabic(val) && r.hasArabicFont {
			family, text = arabicFamily, arabictext.Format(val)
		}

		pdf.SetFont(family, "", spec.size)
		pdf.SetXY(spec.x, spec.y)
		pdf.CellFormat(0, 10, text, "", 0, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(0, kind, err)
	}

	return buf.Bytes(), nil
}
