package spreadsheet

import "strings"

// Canonical field names. Spreadsheet headers are normalized onto these
// before any downstream code sees a row.
const (
	FieldName               = "name"
	FieldPhoneNumber        = "phone number"
	FieldLastFourDigits     = "last four digits"
	FieldActivationCode     = "activation code"
	FieldDeliveryAddress    = "delivery address"
	FieldAddressTitle       = "address title"
	FieldAddressDescription = "address description"
	FieldOnboardingName     = "onboarding name"
	FieldUniversity         = "university"
)

// headerAliases maps the header spellings seen in real upload files onto
// canonical field names. Keys are lowercase; unknown headers pass through
// lowercased and trimmed.
var headerAliases = map[string]string{
	"card phone number":   FieldPhoneNumber,
	"phone number":        FieldPhoneNumber,
	"card last digits":    FieldLastFourDigits,
	"last four digits":    FieldLastFourDigits,
	"cardholder name":     FieldName,
	"name":                FieldName,
	"activation code":     FieldActivationCode,
	"delivery location":   FieldDeliveryAddress,
	"delivery address":    FieldDeliveryAddress,
	"address title":       FieldAddressTitle,
	"address description": FieldAddressDescription,
	"onboarding name":     FieldOnboardingName,
	"university":          FieldUniversity,
}

// NormalizeHeader lowercases, trims, and alias-maps a raw column header.
func NormalizeHeader(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := headerAliases[h]; ok {
		return canonical
	}
	return h
}

// Row is one spreadsheet record keyed by canonical field name. Values are
// trimmed strings; absent cells read as empty.
type Row map[string]string

// Get returns the value for the canonical field, or empty.
func (r Row) Get(field string) string {
	return r[field]
}

// Empty reports whether every cell in the row is blank.
func (r Row) Empty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}
