// Package arabictext prepares Arabic and Kurdish text for renderers that
// lay glyphs out left to right.
//
// Shaping joins letters into their contextual presentation forms and
// reorders the run for visual display. Kurdish-specific characters are
// first mapped onto Arabic equivalents so a font with plain Arabic coverage
// renders them.
package arabictext

import (
	"strings"

	"github.com/abdullahdiaa/garabic"
)

// invisible marks stripped before classifying text direction.
var directionMarks = strings.NewReplacer(
	"‎", "", // left-to-right mark
	"‏", "", // right-to-left mark
	"‪", "", // LTR embedding
	"‫", "", // RTL embedding
	"‬", "", // pop directional formatting
	"‭", "", // LTR override
	"‮", "", // RTL override
)

// inArabicBlock reports whether the rune falls in the Arabic Unicode block.
func inArabicBlock(r rune) bool {
	return r >= 0x0600 && r <= 0x06FF
}

// IsArabic reports whether the text is predominantly Arabic: more than half
// of its visible characters fall in the Arabic block.
func IsArabic(text string) bool {
	stripped := directionMarks.Replace(text)

	arabic := 0
	for _, r := range stripped {
		if inArabicBlock(r) {
			arabic++
		}
	}

	visible := len([]rune(strings.TrimSpace(stripped)))
	return visible > 0 && arabic*2 > visible
}

// ContainsArabic reports whether any character falls in the Arabic block.
func ContainsArabic(text string) bool {
	for _, r := range text {
		if inArabicBlock(r) {
			return true
		}
	}
	return false
}

// KurdishToArabic replaces Kurdish-specific characters with Arabic
// equivalents: ێ becomes ي, and a word-internal ە becomes ه followed by a
// space. A trailing or space-adjacent ە is left alone.
func KurdishToArabic(text string) string {
	text = strings.ReplaceAll(text, "ێ", "ي")

	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 8)

	for i, r := range runes {
		if r != 'ە' {
			b.WriteRune(r)
			continue
		}
		precededBySpace := i > 0 && runes[i-1] == ' '
		followedByNonSpace := i+1 < len(runes) && runes[i+1] != ' '
		if !precededBySpace && followedByNonSpace {
			b.WriteRune('ه')
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Format runs the full display pipeline: Kurdish mapping, then, for text
// containing Arabic characters, contextual shaping and right-to-left visual
// reordering. Non-Arabic text passes through trimmed.
func Format(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}

	s = KurdishToArabic(s)
	if !ContainsArabic(s) {
		return s
	}

	shaped := garabic.Shape(s)
	return reverse(shaped)
}

// reverse returns the runes of s in reverse order. Shaped Arabic runs read
// right to left, so a left-to-right glyph renderer needs them reversed.
func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
