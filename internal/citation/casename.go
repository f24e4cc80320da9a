package citation

import (
	"regexp"
	"strings"
	"unicode"
)

const caseNameLookback = 150

// Checked in this order rather than the grammar's nominal 1-4 listing: the
// three keyword-anchored forms must run before the generic "Party v Party"
// pattern, or its unanchored backward reach swallows the keyword and
// everything ahead of it.
var caseNamePatterns = []*regexp.Regexp{
	// (R | Regina | Rex) v Party
	regexp.MustCompile(`\b(R|Regina|Rex)\s+v\.?\s+([A-Z][\w.,&'() -]{1,80}?)\s*$`),
	// Secretary of State for ... v Party
	regexp.MustCompile(`(Secretary of State for [A-Za-z ]+?)\s+v\.?\s+([A-Z][\w.,&'() -]{1,80}?)\s*$`),
	// (In re | Re | Ex parte) Name
	regexp.MustCompile(`\b(In re|Re|Ex parte)\s+([A-Z][\w.,&'() -]{1,80}?)\s*$`),
	// Party [connectives] v Party [corporate-suffix]?
	regexp.MustCompile(`([A-Z][\w.,&'() -]{1,80}?)\s+v\.?\s+([A-Z][\w.,&'() -]{1,80}?)(?:\s+(Ltd\.?|plc|LLP|Inc\.?|Corp\.?))?\s*$`),
}

// ExtractCaseName searches at most the trailing 150 characters of prefixText
// (the text immediately before a citation match) for a case-name phrase,
// trying the ordered alternatives of spec.md §4.1 in turn. Returns "" if none
// matches or the candidate fails the minimum-length/uppercase sanity check.
func ExtractCaseName(prefixText string) string {
	window := prefixText
	if len(window) > caseNameLookback {
		window = window[len(window)-caseNameLookback:]
	}
	window = strings.TrimRight(window, " \t\n\r")

	for _, pattern := range caseNamePatterns {
		loc := pattern.FindStringIndex(window)
		if loc == nil {
			continue
		}
		candidate := strings.TrimSpace(window[loc[0]:loc[1]])
		if isValidCaseName(candidate) {
			return candidate
		}
	}
	return ""
}

func isValidCaseName(name string) bool {
	if len(name) <= 5 {
		return false
	}
	for _, r := range name {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
