package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips diacritics and lowercases text for comparison.
func Fold(value string) string {
	return strings.ToLower(stripMarks(value))
}

// AlnumName reduces a display name to its ASCII letters and digits after
// stripping diacritics, preserving case: "Adho Mukha Śvānāsana" becomes
// "AdhoMukhaSvanasana".
func AlnumName(value string) string {
	stripped := stripMarks(value)
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize folds text and splits it on anything that is not a letter or
// digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsFolded reports whether every token of query appears as a
// substring of the folded haystack.
func ContainsFolded(haystack, query string) bool {
	folded := Fold(haystack)
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return true
	}
	for _, token := range tokens {
		if !strings.Contains(folded, token) {
			return false
		}
	}
	return true
}

// SanitizeToken turns a title or id into a lowercase identifier safe for
// URLs and file names. Hyphens survive; every run of other separators
// becomes a single underscore. Empty results become "unknown".
func SanitizeToken(value string) string {
	var b strings.Builder
	gap := false
	for _, r := range Fold(value) {
		if r == '-' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			if gap && b.Len() > 0 {
				b.WriteByte('_')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	if out := strings.Trim(b.String(), "-"); out != "" {
		return out
	}
	return "unknown"
}

func stripMarks(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}
