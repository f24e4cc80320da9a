package judgment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	cerrors "github.com/legalaudit/crvc/pkg/errors"
	"github.com/legalaudit/crvc/pkg/models"
)

// MinFallbackParagraphLen is the minimum character length a whitespace-
// segmented fallback paragraph must reach to be retained (spec.md §4.4).
var MinFallbackParagraphLen = 100

var (
	titleCitationRE  = regexp.MustCompile(`\[(\d{4})\]\s+(\w+)(?:\s+(?:Civ|Crim))?\s+(\d+)(?:\s*\(\w+\))?`)
	bracketedNumRE   = regexp.MustCompile(`^\[(\d+)\]\s*(.*)$`)
	judgmentMarkers  = []string{"judgment", "lord ", "the court", "opinion"}
)

// ParseHTML parses a judgment HTML page, stripping script/style, first
// trying the numbered-paragraph pass and falling back to whitespace
// segmentation when that yields nothing.
func ParseHTML(body []byte, sourceURL string) (*models.Judgment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, cerrors.ParsingError("failed to parse judgment HTML", err)
	}
	doc.Find("script, style").Remove()

	j := &models.Judgment{
		SourceURL: sourceURL,
		ParserTrace: models.ParserTrace{
			Method: models.ParserMethodHTML,
		},
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	j.Title = title

	if m := titleCitationRE.FindString(title); m != "" {
		j.NeutralCitation = m
		j.CaseName = strings.TrimSpace(strings.SplitN(title, m, 2)[0])
		if courtMatch := regexp.MustCompile(`\[(\d{4})\]\s+(\w+)`).FindStringSubmatch(m); len(courtMatch) == 3 {
			j.Court = courtMatch[2]
		}
	} else {
		j.CaseName = title
	}

	j.Paragraphs = numberedParagraphPass(doc)
	if len(j.Paragraphs) == 0 {
		j.Paragraphs = whitespaceFallbackPass(doc)
		j.ParserTrace.Warnings = append(j.ParserTrace.Warnings, "used fallback segmentation")
	}

	j.FullText = cleanFullText(doc.Text())

	return j, nil
}

// numberedParagraphPass looks for <p> elements whose text begins with a
// bracketed paragraph number, e.g. "[12] The claimant submits...".
func numberedParagraphPass(doc *goquery.Document) []models.Paragraph {
	var paragraphs []models.Paragraph
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		m := bracketedNumRE.FindStringSubmatch(text)
		if m == nil {
			return
		}

		speaker := ""
		if bold := s.Find("b").First(); bold.Length() > 0 {
			speaker = strings.TrimSuffix(strings.TrimSpace(bold.Text()), ":")
		}

		paragraphs = append(paragraphs, models.Paragraph{
			Number:  m[1],
			Text:    strings.TrimSpace(m[2]),
			Speaker: speaker,
		})
	})
	return paragraphs
}

// whitespaceFallbackPass is used when no bracket-numbered paragraphs are
// found: skip preceding boilerplate up to the first judgment marker line,
// then group subsequent lines into blank-line-separated paragraphs,
// retaining only those at least MinFallbackParagraphLen characters long.
func whitespaceFallbackPass(doc *goquery.Document) []models.Paragraph {
	text := cleanFullText(doc.Text())
	lines := strings.Split(text, "\n")

	start := 0
	for i, line := range lines {
		lower := strings.ToLower(line)
		marked := false
		for _, marker := range judgmentMarkers {
			if strings.Contains(lower, marker) {
				marked = true
				break
			}
		}
		if marked {
			start = i
			break
		}
	}

	var paragraphs []models.Paragraph
	var current []string
	num := 1

	flush := func() {
		if len(current) == 0 {
			return
		}
		paraText := strings.TrimSpace(strings.Join(current, " "))
		if len(paraText) >= MinFallbackParagraphLen {
			paragraphs = append(paragraphs, models.Paragraph{
				Number: strconv.Itoa(num),
				Text:   paraText,
			})
			num++
		}
		current = nil
	}

	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimSpace(line))
	}
	flush()

	return paragraphs
}

func cleanFullText(raw string) string {
	lines := strings.Split(raw, "\n")
	var out []string
	for _, line := range lines {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n")
}
