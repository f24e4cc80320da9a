package search

import (
	"strings"
	"unicode"
)

// stopWords is the closed set of case-name words that carry no
// disambiguating signal during search-result matching (spec.md §4.5).
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "v": {}, "r": {}, "re": {}, "plc": {},
	"ltd": {}, "council": {}, "authority": {}, "trust": {}, "hospital": {},
	"committee": {}, "secretary": {}, "state": {}, "for": {}, "a": {}, "an": {},
	"in": {}, "on": {}, "ex": {}, "parte": {},
}

// Tokenize splits a case name into its significant search terms: split on
// non-letters, lowercase, drop stop words, keep words of 3+ letters.
func Tokenize(caseName string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range caseName {
		if unicode.IsLetter(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Overlap counts how many of terms appear (case-insensitive substring
// match) in body.
func Overlap(terms []string, body string) int {
	lower := strings.ToLower(body)
	count := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			count++
		}
	}
	return count
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
