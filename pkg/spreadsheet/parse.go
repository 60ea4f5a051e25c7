package spreadsheet

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// allowedExtensions is the upload allow-list. Legacy .xls files are accepted
// at the upload boundary but only the OOXML format parses; a real .xls body
// fails at decode with a client-visible parse error.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// ValidateUpload checks an upload's filename and declared size before any
// bytes are parsed. It returns ErrUnsupportedType or ErrTooLarge.
func ValidateUpload(filename string, size, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, maxBytes)
	}
	return nil
}

// Sheet is a parsed workbook: the normalized headers of the first sheet and
// its non-empty data rows, in file order.
type Sheet struct {
	// Headers are the canonical column names, in column order. Blank
	// header cells keep their position as empty strings.
	Headers []string

	// Rows are the data rows keyed by canonical field name. Fully empty
	// rows are dropped; partially empty rows keep empty strings for the
	// blank cells.
	Rows []Row

	// RawRows preserves the original trimmed cell values per row, in
	// column order, for renderers that reproduce the sheet as a table.
	RawRows [][]string
}

// Parse reads an xlsx workbook and extracts the first sheet. The first row
// is the header row; every following non-empty row becomes a Row keyed by
// canonical field name. Headers that map to the same canonical field keep
// the last non-empty value, matching how duplicated columns behave in the
// source files.
func Parse(r io.Reader, filename string) (*Sheet, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewParseError(filename, err)
	}
	defer wb.Close()

	sheetName := wb.GetSheetName(wb.GetActiveSheetIndex())
	if sheetName == "" {
		return nil, NewParseError(filename, fmt.Errorf("workbook has no sheets"))
	}

	rows, err := wb.GetRows(sheetName)
	if err != nil {
		return nil, NewParseError(filename, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(h)
	}

	sheet := &Sheet{Headers: headers}
	for _, raw := range rows[1:] {
		row := make(Row, len(headers))
		cells := make([]string, len(headers))
		for i, field := range headers {
			var v string
			if i < len(raw) {
				v = strings.TrimSpace(raw[i])
			}
			cells[i] = v
			if field == "" {
				continue
			}
			if v != "" || row[field] == "" {
				row[field] = v
			}
		}
		if row.Empty() {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
		sheet.RawRows = append(sheet.RawRows, cells)
	}

	if len(sheet.Rows) == 0 {
		return nil, ErrNoRows
	}

	return sheet, nil
}
