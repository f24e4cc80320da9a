// Package concepts implements the Hallucination Classifier: mapping a
// Verifier outcome, resolution status, and retrieval success onto the
// closed eight-category hallucination taxonomy (spec.md §4.8 step 4).
package concepts

import "github.com/legalaudit/crvc/pkg/models"

// Classify maps (outcome, resolutionStatus, retrieved) to a category. It
// is deliberately conservative: a successfully retrieved case is never
// auto-labelled as fabricated, since retrieval success already proves the
// case exists (original_source/scripts/verify_claim.py's
// classify_hallucination_type docstring: "if we successfully retrieved a
// case... the case EXISTS - it's not fabricated").
func Classify(outcome models.VerificationOutcome, resolutionStatus models.ResolutionStatus, retrieved bool) models.HallucinationCategory {
	if outcome == models.OutcomeSupported {
		return models.HallucinationNone
	}

	if outcome == models.OutcomeNeedsReview && retrieved {
		return models.HallucinationNeedsManualReview
	}

	if !retrieved && resolutionStatus == models.ResolutionUnresolvable {
		return models.HallucinationFabricatedCiteAndCase
	}

	return models.HallucinationNeedsManualReview
}
