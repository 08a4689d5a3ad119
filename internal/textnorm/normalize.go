// Package textnorm provides text normalization for fuzzy question matching.
// All matching in the bot operates on the normalized form: lowercase,
// accent-free, word characters and single spaces only.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the input, strips diacritics, removes everything
// that is not a letter, digit or underscore, and collapses whitespace.
// The result contains only single spaces and no leading/trailing space.
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(s)

	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			// Punctuation and symbols are dropped without leaving a gap,
			// so "usg?!" normalizes to "usg", not "usg ".
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Tokens returns the whitespace-separated tokens of the normalized input.
// Returns nil for input that normalizes to the empty string.
func Tokens(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
