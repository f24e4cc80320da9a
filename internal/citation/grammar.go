// Package citation implements the Citation Grammar: pure recognition of UK
// case-law citation forms and the case names that precede them in running
// text. Nothing in this package performs I/O.
package citation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/legalaudit/crvc/pkg/models"
)

// dialect is one compiled recognition pattern for a neutral or reporter
// citation form. build turns a regex match into a Citation.
type dialect struct {
	name  string
	re    *regexp.Regexp
	build func(match []string) *models.Citation
}

// Grammar recognises citation forms and extracts case names from text. It
// holds no mutable state beyond its compiled patterns and is safe for
// concurrent use.
type Grammar struct {
	dialects []dialect
}

// NewGrammar compiles the closed set of recognised dialects.
func NewGrammar() *Grammar {
	return &Grammar{dialects: buildDialects()}
}

// FindAll scans text and returns non-overlapping citations ordered by
// position, deduplicated on whitespace-normalised raw form (spec.md §4.1).
func (g *Grammar) FindAll(text string) []*models.Citation {
	type span struct {
		start, end int
		citation   *models.Citation
	}

	var spans []span
	for _, d := range g.dialects {
		for _, m := range d.re.FindAllStringSubmatchIndex(text, -1) {
			raw := text[m[0]:m[1]]
			c := d.build(regexpGroups(text, m))
			if c == nil {
				continue
			}
			c.RawText = strings.TrimSpace(raw)
			c.Position = &models.CitationPosition{Start: m[0], End: m[1]}
			c.CaseName = ExtractCaseName(text[:m[0]])
			spans = append(spans, span{start: m[0], end: m[1], citation: c})
		}
	}

	// Earliest start first; among equal starts, the longer (more specific)
	// match wins (spec.md §4.1 overlap-resolution rule).
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return (spans[i].end - spans[i].start) > (spans[j].end - spans[j].start)
	})

	var out []*models.Citation
	seen := make(map[string]bool)
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue // overlaps a previously accepted, longer/earlier match
		}
		key := normaliseWhitespace(s.citation.RawText)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s.citation)
		lastEnd = s.end
	}
	return out
}

// Classify parses a single raw citation string in isolation, returning an
// Unknown-form Citation if no dialect matches it.
func (g *Grammar) Classify(raw string) *models.Citation {
	trimmed := strings.TrimSpace(raw)
	for _, d := range g.dialects {
		loc := d.re.FindStringSubmatchIndex(trimmed)
		if loc == nil || loc[0] != 0 || loc[1] != len(trimmed) {
			continue
		}
		c := d.build(regexpGroups(trimmed, loc))
		if c != nil {
			c.RawText = trimmed
			return c
		}
	}
	return &models.Citation{RawText: trimmed, Form: models.CitationFormUnknown}
}

func regexpGroups(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		s, e := loc[2*i], loc[2*i+1]
		if s < 0 || e < 0 {
			continue
		}
		groups[i] = text[s:e]
	}
	return groups
}

func normaliseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func buildDialects() []dialect {
	neutral := func(name string, re *regexp.Regexp, court func([]string) (string, string)) dialect {
		return dialect{
			name: name,
			re:   re,
			build: func(m []string) *models.Citation {
				year := atoiOrZero(m[1])
				courtCode, division := court(m)
				number := 0
				for i := 2; i < len(m); i++ {
					if n, err := strconv.Atoi(m[i]); err == nil {
						number = n
						break
					}
				}
				return &models.Citation{
					Form: models.CitationFormNeutral,
					Neutral: &models.NeutralForm{
						Court:    courtCode,
						Year:     year,
						Number:   number,
						Division: division,
					},
				}
			},
		}
	}

	dialects := []dialect{
		neutral("EWHC", regexp.MustCompile(`\[(\d{4})\]\s+EWHC\s+(\d+)\s*\((Admin|Ch|QB|KB|Fam|TCC|Comm|Pat)\)`),
			func(m []string) (string, string) { return "EWHC", m[3] }),
		neutral("UKUT", regexp.MustCompile(`\[(\d{4})\]\s+UKUT\s+(\d+)\s*\((IAC|LC|TCC)\)`),
			func(m []string) (string, string) { return "UKUT", m[3] }),
		neutral("UKFTT", regexp.MustCompile(`\[(\d{4})\]\s+UKFTT\s+(\d+)\s*\((TC|GRC)\)`),
			func(m []string) (string, string) { return "UKFTT", m[3] }),
		neutral("EWCA", regexp.MustCompile(`\[(\d{4})\]\s+EWCA\s+(Civ|Crim)\s+(\d+)`),
			func(m []string) (string, string) { return "EWCA", m[2] }),
		neutral("UKSC", regexp.MustCompile(`\[(\d{4})\]\s+UKSC\s+(\d+)`),
			func(m []string) (string, string) { return "UKSC", "" }),
		neutral("UKPC", regexp.MustCompile(`\[(\d{4})\]\s+UKPC\s+(\d+)`),
			func(m []string) (string, string) { return "UKPC", "" }),
		neutral("UKHL", regexp.MustCompile(`\[(\d{4})\]\s+UKHL\s+(\d+)`),
			func(m []string) (string, string) { return "UKHL", "" }),
		neutral("EAT", regexp.MustCompile(`\[(\d{4})\]\s+EAT\s+(\d+)`),
			func(m []string) (string, string) { return "EAT", "" }),
	}

	// EWCA's (Civ|Crim) group sits before the number group; its builder reads
	// the division and number from fixed groups rather than relying on the
	// shared builder's first-integer scan.
	dialects[3] = dialect{
		name: "EWCA",
		re:   regexp.MustCompile(`\[(\d{4})\]\s+EWCA\s+(Civ|Crim)\s+(\d+)`),
		build: func(m []string) *models.Citation {
			return &models.Citation{
				Form: models.CitationFormNeutral,
				Neutral: &models.NeutralForm{
					Court:    "EWCA",
					Year:     atoiOrZero(m[1]),
					Number:   atoiOrZero(m[3]),
					Division: m[2],
				},
			}
		},
	}

	reporterRe := regexp.MustCompile(
		`\[(\d{4})\]\s+(\d+)?\s*(AC|QB|KB|Ch|WLR|All ER|Fam|ICR|IRLR|BCLC|Cr App R|Lloyd's Rep|P&CR)\s+(\d+)`,
	)
	dialects = append(dialects, dialect{
		name: "Reporter",
		re:   reporterRe,
		build: func(m []string) *models.Citation {
			return &models.Citation{
				Form: models.CitationFormReporter,
				Reporter: &models.ReporterForm{
					Year:     atoiOrZero(m[1]),
					Volume:   strings.TrimSpace(m[2]),
					Reporter: m[3],
					Page:     m[4],
				},
			}
		},
	})

	return dialects
}
