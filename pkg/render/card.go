package render

import (
	"fmt"

	"github.com/Malikabakr/bank-project/pkg/spreadsheet"
)

// CardKind selects a document layout. Each kind fixes which fields print
// and where they sit on the page.
type CardKind string

const (
	KindPlatinum  CardKind = "platinum"
	KindCorporate CardKind = "corporate"
	KindBusiness  CardKind = "business"
	KindISIC      CardKind = "isic"
	KindITIC      CardKind = "itic"
	KindIYTC      CardKind = "iytc"
	KindA4        CardKind = "a4"

	// KindCollection is the bulk card-collection sleeve: the same four
	// fields as IYTC, printed in collection order.
	KindCollection CardKind = "collection"
)

// ParseKind validates a client-supplied card kind.
func ParseKind(s string) (CardKind, error) {
	k := CardKind(s)
	if _, ok := layouts[k]; !ok {
		return "", fmt.Errorf("unknown card kind %q", s)
	}
	return k, nil
}

// Kinds returns the supported card kinds.
func Kinds() []CardKind {
	return []CardKind{
		KindPlatinum, KindCorporate, KindBusiness,
		KindISIC, KindITIC, KindIYTC, KindA4, KindCollection,
	}
}

// fieldSpec places one field on the page. Coordinates are points from the
// top-left corner.
type fieldSpec struct {
	field string
	x, y  float64
	size  float64

	// shaped fields get Arabic detection, Kurdish mapping, and glyph
	// shaping; the rest print verbatim in the Latin face.
	shaped bool
}

// Page dimensions in points. Every card kind prints on B5 stock; A4 pages
// are used by the table renderer.
const (
	b5Width  = 498.9
	b5Height = 708.7
	a4Width  = 595.28
	a4Height = 841.89
)

// layouts carries the per-kind field placements measured off the physical
// card sleeves. Order matters only for readers of this table; each field
// prints at its own absolute position.
var layouts = map[CardKind][]fieldSpec{
	KindPlatinum: {
		{field: spreadsheet.FieldActivationCode, x: 288, y: 375, size: 14},
		{field: spreadsheet.FieldLastFourDigits, x: 258, y: 406, size: 14},
		{field: spreadsheet.FieldName, x: 183, y: 435, size: 14},
		{field: spreadsheet.FieldPhoneNumber, x: 245, y: 465, size: 14},
		{field: spreadsheet.FieldDeliveryAddress, x: 230, y: 507, size: 14},
		{field: spreadsheet.FieldAddressTitle, x: 123, y: 568, size: 8, shaped: true},
		{field: spreadsheet.FieldAddressDescription, x: 123, y: 585, size: 8, shaped: true},
	},
	KindCorporate: {
		{field: spreadsheet.FieldActivationCode, x: 155, y: 375, size: 14},
		{field: spreadsheet.FieldName, x: 152, y: 407, size: 14},
		{field: spreadsheet.FieldLastFourDigits, x: 152, y: 470, size: 14},
		{field: spreadsheet.FieldPhoneNumber, x: 152, y: 525, size: 14},
		{field: spreadsheet.FieldDeliveryAddress, x: 152, y: 585, size: 14},
	},
	KindBusiness: {
		{field: spreadsheet.FieldActivationCode, x: 280, y: 375, size: 14},
		{field: spreadsheet.FieldLastFourDigits, x: 290, y: 405, size: 14},
		{field: spreadsheet.FieldName, x: 210, y: 430, size: 14},
		{field: spreadsheet.FieldOnboardingName, x: 185, y: 445, size: 14},
		{field: spreadsheet.FieldPhoneNumber, x: 240, y: 470, size: 14},
		{field: spreadsheet.FieldDeliveryAddress, x: 230, y: 507, size: 14},
		{field: spreadsheet.FieldAddressTitle, x: 123, y: 568, size: 8, shaped: true},
		{field: spreadsheet.FieldAddressDescription, x: 123, y: 585, size: 8, shaped: true},
	},
	KindISIC: {
		{field: spreadsheet.FieldLastFourDigits, x: 150, y: 423, size: 14},
		{field: spreadsheet.FieldDeliveryAddress, x: 150, y: 463, size: 14},
		{field: spreadsheet.FieldPhoneNumber, x: 150, y: 503, size: 14},
		{field: spreadsheet.FieldName, x: 150, y: 538, size: 14},
		{field: spreadsheet.FieldUniversity, x: 150, y: 575, size: 14},
	},
	KindITIC: {
		{field: spreadsheet.FieldLastFourDigits, x: 150, y: 423, size: 14},
		{field: spreadsheet.FieldDeliveryAddress, x: 150, y: 463, size: 14},
		{field: spreadsheet.FieldPhoneNumber, x: 150, y: 503, size: 14},
		{field: spreadsheet.FieldName, x: 150, y: 538, size: 14},
		{field: spreadsheet.FieldUniversity, x: 150, y: 575, size: 14},
	},
	KindIYTC: {
		{field: spreadsheet.FieldLastFourDigits, x: 150, y: 463, size: 14},
		{field: spreadsheet.FieldDeliveryAddress, x: 150, y: 503, size: 14},
		{field: spreadsheet.FieldPhoneNumber, x: 150, y: 538, size: 14},
		{field: spreadsheet.FieldName, x: 150, y: 575, size: 14},
	},
	KindA4: {
		{field: spreadsheet.FieldName, x: 195, y: 340, size: 20},
		{field: spreadsheet.FieldPhoneNumber, x: 195, y: 380, size: 20},
		{field: spreadsheet.FieldLastFourDigits, x: 195, y: 415, size: 20},
		{field: spreadsheet.FieldDeliveryAddress, x: 195, y: 450, size: 20},
	},
	KindCollection: {
		{field: spreadsheet.FieldLastFourDigits, x: 160, y: 410, size: 14},
		{field: spreadsheet.FieldDeliveryAddress, x: 160, y: 450, size: 14},
		{field: spreadsheet.FieldPhoneNumber, x: 160, y: 490, size: 14},
		{field: spreadsheet.FieldName, x: 160, y: 530, size: 14},
	},
}

