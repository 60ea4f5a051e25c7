package render

import (
	"bytes"
	"errors"

	"github.com/go-pdf/fpdf"

	"github.com/Malikabakr/bank-project/pkg/render/arabictext"
	"github.com/Malikabakr/bank-project/pkg/spreadsheet"
)

// Table layout constants, in points.
const (
	tableMargin     = 40.0
	tableHeaderH    = 24.0
	tableRowH       = 20.0
	tableHeaderSize = 12.0
	tableCellSize   = 10.0
)

// RenderTable reproduces the whole sheet as a bordered grid on A4 pages,
// header row repeated per page. Cells containing Arabic or Kurdish text are
// shaped; everything else prints verbatim.
func (r *Renderer) RenderTable(sheet *spreadsheet.Sheet) ([]byte, error) {
	if sheet == nil || len(sheet.Headers) == 0 {
		return nil, NewRenderError(0, "", errors.New("empty sheet"))
	}

	pdf := r.newDocument(a4Width, a4Height)
	pdf.SetMargins(tableMargin, tableMargin, tableMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	colW := (a4Width - 2*tableMargin) / float64(len(sheet.Headers))

	drawHeader := func() {
		pdf.SetXY(tableMargin, pdf.GetY())
		for _, h := range sheet.Headers {
			r.tableCell(pdf, colW, tableHeaderH, tableHeaderSize, h)
		}
		pdf.Ln(tableHeaderH)
	}
	drawHeader()

	for _, cells := range sheet.RawRows {
		if pdf.GetY()+tableRowH > a4Height-tableMargin {
			pdf.AddPage()
			drawHeader()
		}

		pdf.SetX(tableMargin)
		for i := range sheet.Headers {
			var v string
			if i < len(cells) {
				v = cells[i]
			}
			r.tableCell(pdf, colW, tableRowH, tableCellSize, v)
		}
		pdf.Ln(tableRowH)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(0, "", err)
	}

	return buf.Bytes(), nil
}

// tableCell draws one bordered, centered cell, shaping Arabic content when
// the Arabic font is available.
func (r *Renderer) tableCell(pdf *fpdf.Fpdf, w, h, size float64, text string) {
	family := r.latinFace()
	if arabictext.ContainsArabic(text) && r.hasArabicFont {
		family, text = arabicFamily, arabictext.Format(text)
	}

	pdf.SetFont(family, "", size)
	pdf.CellFormat(w, h, text, "1", 0, "C", false, 0, "")
}
