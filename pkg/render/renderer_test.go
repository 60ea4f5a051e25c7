package render

import (
	"bytes"
	"testing"

	"github.com/Malikabakr/bank-project/pkg/spreadsheet"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		if err != nil {
			t.Errorf("ParseKind(%q) error = %v", k, err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %q", k, got)
		}
	}

	if _, err := ParseKind("gold"); err == nil {
		t.Error("ParseKind(\"gold\") succeeded, want error")
	}
}

func TestRenderCard(t *testing.T) {
	r := NewRenderer(Options{})

	row := spreadsheet.Row{
		spreadsheet.FieldName:            "Ali Hassan",
		spreadsheet.FieldPhoneNumber:     "0750 123 4567",
		spreadsheet.FieldLastFourDigits:  "1234",
		spreadsheet.FieldActivationCode:  "AC-9921",
		spreadsheet.FieldDeliveryAddress: "Erbil, 60m Street",
	}

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			out, err := r.RenderCard(row, kind)
			if err != nil {
				t.Fatalf("RenderCard() error = %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF")) {
				t.Errorf("output does not start with a PDF header")
			}
		})
	}
}

// The collection sleeve prints exactly four fields, digits first.
func TestCollectionLayout(t *testing.T) {
	want := []string{
		spreadsheet.FieldLastFourDigits,
		spreadsheet.FieldDeliveryAddress,
		spreadsheet.FieldPhoneNumber,
		spreadsheet.FieldName,
	}

	specs := layouts[KindCollection]
	if len(specs) != len(want) {
		t.Fatalf("collection layout has %d fields, want %d", len(specs), len(want))
	}
	for i, spec := range specs {
		if spec.field != want[i] {
			t.Errorf("field #%d = %q, want %q", i, spec.field, want[i])
		}
	}
}

func TestRenderCard_EmptyFieldsSkipped(t *testing.T) {
	r := NewRenderer(Options{})

	// A row with only a name still renders: empty fields are left blank
	// on the page, not errors.
	row := spreadsheet.Row{spreadsheet.FieldName: "Ali"}

	out, err := r.RenderCard(row, KindPlatinum)
	if err != nil {
		t.Fatalf("RenderCard() error = %v", err)
	}
	if len(out) == 0 {
		t.Error("empty output")
	}
}

func TestRenderCard_UnknownKind(t *testing.T) {
	r := NewRenderer(Options{})

	if _, err := r.RenderCard(spreadsheet.Row{}, CardKind("gold")); err == nil {
		t.Error("RenderCard() with unknown kind succeeded, want error")
	}
}

func TestRenderTable(t *testing.T) {
	r := NewRenderer(Options{})

	sheet := &spreadsheet.Sheet{
		Headers: []string{"name", "phone number", "last four digits"},
		RawRows: [][]string{
			{"Ali Hassan", "0750 123 4567", "1234"},
			{"Sara Omar", "0751 987 6543", "5678"},
		},
	}

	out, err := r.RenderTable(sheet)
	if err != nil {
		t.Fatalf("RenderTable() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestRenderTable_ManyRowsPaginate(t *testing.T) {
	r := NewRenderer(Options{})

	sheet := &spreadsheet.Sheet{Headers: []string{"name", "phone number"}}
	for i := 0; i < 120; i++ {
		sheet.RawRows = append(sheet.RawRows, []string{"Row", "000"})
	}

	out, err := r.RenderTable(sheet)
	if err != nil {
		t.Fatalf("RenderTable() error = %v", err)
	}
	// 120 rows at 20pt cannot fit one A4 page; a multi-page document is
	// comfortably larger than a single-page one.
	if len(out) < 2000 {
		t.Errorf("suspiciously small output: %d bytes", len(out))
	}
}

func TestRenderTable_EmptySheet(t *testing.T) {
	r := NewRenderer(Options{})

	if _, err := r.RenderTable(&spreadsheet.Sheet{}); err == nil {
		t.Error("RenderTable() of empty sheet succeeded, want error")
	}
	if _, err := r.RenderTable(nil); err == nil {
		t.Error("RenderTable(nil) succeeded, want error")
	}
}
