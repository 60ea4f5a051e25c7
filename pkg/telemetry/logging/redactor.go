package logging

import (
	"regexp"
	"strings"
)

// Redactor masks cardholder data in log fields. Uploaded spreadsheets carry
// names, phone numbers, card digits, and addresses; none of that belongs in
// the service logs.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and its replacement.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a redactor with the built-in cardholder patterns.
func NewRedactor() *Redactor {
	r := &Redactor{}

	add := func(name, pattern, replacement string) {
		r.patterns = append(r.patterns, &redactPattern{
			name:        name,
			regex:       regexp.MustCompile(pattern),
			replacement: replacement,
		})
	}

	// Local mobile numbers (07xx xxx xxxx) and international forms. Runs
	// before the card pattern: a 13-digit international number is a phone,
	// not a PAN.
	add("phone", `(?:\+?964|\b0)7\d{2}[-\s]?\d{3}[-\s]?\d{4}\b`, "07**-***-****")

	// Full card numbers. Delivery sheets carry only last-four digits, but a
	// full PAN pasted into the wrong column must never reach the logs.
	add("card_number", `\b\d(?:[ -]?\d){12,18}\b`, "****-****-****-****")

	// Email addresses keep only the first character and the domain.
	add("email", `\b([a-zA-Z0-9])[a-zA-Z0-9._%+-]*@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`, "$1***@$2")

	return r
}

// RedactString masks cardholder data in a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// SensitiveKey reports whether an attribute key names a value that must be
// fully masked rather than pattern-matched.
func (r *Redactor) SensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range []string{
		"phone", "card_number", "activation_code",
		"address", "password", "secret", "token",
	} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// MaskValue masks a sensitive value completely, keeping only its length as a
// debugging hint.
func (r *Redactor) MaskValue(value string) string {
	if value == "" {
		return ""
	}
	return "***"
}
