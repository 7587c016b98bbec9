package resolver

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes accented characters (NFD) and removes the
// combining marks, so "prácticas" becomes "practicas" and "ñ" becomes "n".
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics, removes every character that is
// not a lowercase letter, digit, or whitespace, collapses whitespace runs,
// and trims. It is total (never fails) and idempotent.
func Normalize(text string) string {
	lower := strings.ToLower(text)

	stripped, _, err := transform.String(stripDiacritics, lower)
	if err != nil {
		// Transform failures leave the lowercased input; the character
		// filter below still guarantees the output charset.
		stripped = lower
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// containsSubstr reports whether haystack contains needle. Both arguments
// must already be normalized.
func containsSubstr(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

// hasToken reports whether the normalized message contains token as a whole
// word. Substring matching would make "pp" match inside "grupp".
func hasToken(normMsg, token string) bool {
	for _, field := range strings.Fields(normMsg) {
		if field == token {
			return true
		}
	}
	return false
}

// hasAnyToken reports whether the normalized message contains any of the
// given whole-word tokens.
func hasAnyToken(normMsg string, tokens []string) bool {
	for _, tok := range tokens {
		if hasToken(normMsg, tok) {
			return true
		}
	}
	return false
}
