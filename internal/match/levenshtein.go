package match

import (
	"cmp"
	"slices"
	"unicode/utf8"
)

// Levenshtein returns the edit distance between a and b, counted in runes:
// the fewest single-rune insertions, deletions or substitutions turning one
// into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	// row[i] is the distance between ra[:i] and the prefix of rb seen so far.
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j, cb := range rb {
		diag := row[0]
		row[0] = j + 1

		for i, ca := range ra {
			cost := 1
			if ca == cb {
				cost = 0
			}

			next := min(row[i+1]+1, row[i]+1, diag+cost)
			diag = row[i+1]
			row[i+1] = next
		}
	}

	return row[len(ra)]
}

// Similarity maps the edit distance to [0, 1]: 1 for equal strings, 0 when
// every rune of the longer one must change.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Suggestion is a name close to a requested one.
type Suggestion struct {
	Name  string
	Score float64
}

// MinSuggestionScore is the lowest similarity still worth suggesting.
const MinSuggestionScore = 0.5

// Suggest returns up to limit names from candidates that resemble target,
// best first, ties in alphabetical order. Names are compared after
// NormalizeIdent so "unit_price" suggests "UnitPrice". A limit of zero or
// less returns every match.
func Suggest(target string, candidates []string, limit int) []string {
	norm := NormalizeIdent(target)

	var ranked []Suggestion
	for _, c := range candidates {
		if score := Similarity(norm, NormalizeIdent(c)); score >= MinSuggestionScore {
			ranked = append(ranked, Suggestion{Name: c, Score: score})
		}
	}

	slices.SortFunc(ranked, func(a, b Suggestion) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	names := make([]string, 0, len(ranked))
	for _, s := range ranked {
		names = append(names, s.Name)
	}

	return names
}
