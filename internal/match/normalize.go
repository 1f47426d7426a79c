package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"wiremeta/internal/common"
)

// folder is stateless and safe for concurrent use.
var folder = cases.Fold()

// Fold returns the Unicode case-folded form of s. Two strings match
// case-insensitively when their folded forms are equal.
func Fold(s string) string {
	return folder.String(s)
}

// NormalizeIdent reduces an identifier to its folded words without
// separators, so "unit_price", "UnitPrice" and "UNIT-PRICE" agree.
func NormalizeIdent(s string) string {
	return Fold(strings.Join(SplitIdent(s), ""))
}

// SplitIdent splits an identifier into its words, keeping their case.
//
// A separator (_, - or space) ends a word, and so does an upper-case letter
// after a non-upper one ("productID" -> product, ID) or the last capital of
// an acronym followed by a lower-case letter ("XMLParser" -> XML, Parser).
func SplitIdent(s string) []string {
	runes := []rune(s)

	var words []string

	start := -1
	flush := func(end int) {
		if start >= 0 {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush(i)
			continue
		}

		if start >= 0 && wordBoundary(runes, i) {
			flush(i)
		}

		if start < 0 {
			start = i
		}
	}

	flush(len(runes))

	return words
}

// TokenizeIdent splits an identifier into lower-case words.
func TokenizeIdent(s string) []string {
	return common.Map(SplitIdent(s), strings.ToLower)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// wordBoundary reports whether a new word starts at runes[i]; runes[i-1]
// belongs to the current word.
func wordBoundary(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i]) {
		return false
	}

	if !unicode.IsUpper(runes[i-1]) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
