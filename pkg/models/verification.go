package models

// VerificationOutcome is the closed classification of claim/authority support.
type VerificationOutcome string

const (
	OutcomeSupported    VerificationOutcome = "supported"
	OutcomeNeedsReview  VerificationOutcome = "needs_review"
	OutcomeContradicted VerificationOutcome = "contradicted"
	OutcomeUnverifiable VerificationOutcome = "unverifiable"
)

// VerificationMethod records which matching strategy produced the outcome.
type VerificationMethod string

const (
	VerificationMethodExactMatch    VerificationMethod = "exact_match"
	VerificationMethodKeywordMatch  VerificationMethod = "keyword_match"
	VerificationMethodUnverifiable  VerificationMethod = "unverifiable"
)

// MatchingParagraph is one paragraph that supports a claim, with its score.
type MatchingParagraph struct {
	Paragraph  Paragraph `json:"paragraph"`
	Similarity float64   `json:"similarity"`
}

// Verification is the full result of verifying a claim against a Judgment.
type Verification struct {
	ClaimText          string              `json:"claim_text"`
	CitationText       string              `json:"citation_text"`
	Outcome            VerificationOutcome `json:"outcome"`
	Confidence         float64             `json:"confidence" validate:"min=0,max=1"`
	MatchingParagraphs []MatchingParagraph `json:"matching_paragraphs,omitempty"`
	Method             VerificationMethod  `json:"method"`
	Notes              string              `json:"notes,omitempty"`
	Cancelled          bool                `json:"cancelled,omitempty"`
	Category           HallucinationCategory `json:"hallucination_category"`
}
