// Package verifier implements the Verifier: pure text matching between a
// claim and a retrieved Judgment, producing a Verification outcome with
// evidence (spec.md §4.8). It never fetches; all inputs are supplied by the
// caller.
package verifier

import (
	"regexp"
	"sort"
	"strings"

	"github.com/legalaudit/crvc/internal/concepts"
	"github.com/legalaudit/crvc/pkg/models"
)

const (
	minKeywordLength    = 4
	paragraphThreshold  = 0.3
	supportedThreshold  = 0.6
	reviewThreshold     = 0.3
	maxEvidenceExcerpts = 3
)

// stopWords mirrors verify_claim.py's extract_keywords stop-word set.
var stopWords = map[string]struct{}{
	"that": {}, "this": {}, "with": {}, "from": {}, "have": {}, "been": {},
	"were": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"their": {}, "there": {}, "where": {}, "which": {}, "when": {},
}

var wordRE = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)

// keywords extracts the lowercase keyword set of s: alphabetic runs of at
// least minKeywordLength characters, minus the stop-word set.
func keywords(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range wordRE.FindAllString(strings.ToLower(s), -1) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// overlap returns |K(claim) ∩ K(text)| / |K(claim)|.
func overlap(claimKeywords map[string]struct{}, text string) float64 {
	if len(claimKeywords) == 0 {
		return 0
	}
	textKeywords := keywords(text)
	matched := 0
	for k := range claimKeywords {
		if _, ok := textKeywords[k]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(claimKeywords))
}

// Verify checks claimText against judgment's full text and paragraphs, and
// classifies the hallucination category of the result.
func Verify(claimText, citationText string, judgment *models.Judgment, resolutionStatus models.ResolutionStatus) *models.Verification {
	retrieved := judgment != nil && judgment.HasSubstantialText()

	if !retrieved {
		return &models.Verification{
			ClaimText:    claimText,
			CitationText: citationText,
			Outcome:      models.OutcomeUnverifiable,
			Confidence:   0,
			Method:       models.VerificationMethodUnverifiable,
			Notes:        "judgment could not be retrieved",
			Category:     concepts.Classify(models.OutcomeUnverifiable, resolutionStatus, false),
		}
	}

	if strings.Contains(strings.ToLower(judgment.FullText), strings.ToLower(claimText)) {
		v := &models.Verification{
			ClaimText:    claimText,
			CitationText: citationText,
			Outcome:      models.OutcomeSupported,
			Confidence:   0.95,
			Method:       models.VerificationMethodExactMatch,
			Notes:        "claim text found exactly in the judgment",
		}
		v.Category = concepts.Classify(v.Outcome, resolutionStatus, retrieved)
		return v
	}

	claimKeywords := keywords(claimText)
	overallOverlap := overlap(claimKeywords, judgment.FullText)
	matches := matchingParagraphs(claimKeywords, judgment.Paragraphs)

	topScore := 0.0
	if len(matches) > 0 {
		topScore = matches[0].Similarity
	}

	var outcome models.VerificationOutcome
	var notes string
	confidence := overallOverlap

	switch {
	case overallOverlap >= supportedThreshold || topScore >= supportedThreshold:
		outcome = models.OutcomeSupported
		confidence = maxFloat(overallOverlap, topScore)
		notes = "strong keyword overlap with the judgment"
	case overallOverlap >= reviewThreshold || topScore >= reviewThreshold:
		outcome = models.OutcomeSupported
		confidence = maxFloat(overallOverlap, topScore)
		notes = "moderate keyword overlap — review recommended"
	default:
		outcome = models.OutcomeNeedsReview
		notes = "judgment retrieved but keyword match is low — manual review required"
	}

	if len(matches) > maxEvidenceExcerpts {
		matches = matches[:maxEvidenceExcerpts]
	}

	v := &models.Verification{
		ClaimText:          claimText,
		CitationText:       citationText,
		Outcome:            outcome,
		Confidence:         confidence,
		Method:             models.VerificationMethodKeywordMatch,
		MatchingParagraphs: matches,
		Notes:              notes,
	}
	v.Category = concepts.Classify(outcome, resolutionStatus, retrieved)
	return v
}

func matchingParagraphs(claimKeywords map[string]struct{}, paragraphs []models.Paragraph) []models.MatchingParagraph {
	var out []models.MatchingParagraph
	for _, p := range paragraphs {
		score := overlap(claimKeywords, p.Text)
		if score < paragraphThreshold {
			continue
		}
		out = append(out, models.MatchingParagraph{Paragraph: p, Similarity: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
