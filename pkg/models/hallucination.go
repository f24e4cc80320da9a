package models

// HallucinationCategory is the closed taxonomy of failure modes a citation
// audit can surface, named after the eight-category scheme this spec
// distils (spec.md glossary: "Hallucination category").
type HallucinationCategory string

const (
	// HallucinationNone means the claim was supported; no category applies.
	HallucinationNone HallucinationCategory = "none"

	// HallucinationFabricatedCiteAndCase means neither the citation nor the
	// case it purports to name could be found anywhere public.
	HallucinationFabricatedCiteAndCase HallucinationCategory = "fabricated_cite_and_case"

	// HallucinationWrongNameRightCite means a real citation was attached to
	// the wrong case name.
	HallucinationWrongNameRightCite HallucinationCategory = "wrong_name_right_cite"

	// HallucinationRightNameWrongCite means a real case name was attached to
	// a citation that does not belong to it.
	HallucinationRightNameWrongCite HallucinationCategory = "right_name_wrong_cite"

	// HallucinationConflatedAuthorities means two or more real authorities
	// were merged into one citation.
	HallucinationConflatedAuthorities HallucinationCategory = "conflated_authorities"

	// HallucinationCorrectLawInventedAuthority means the legal proposition is
	// broadly accurate but the authority cited for it does not exist.
	HallucinationCorrectLawInventedAuthority HallucinationCategory = "correct_law_invented_authority"

	// HallucinationRealCaseMisstated means the case is real and correctly
	// cited but the claim misstates what it held.
	HallucinationRealCaseMisstated HallucinationCategory = "real_case_misstated"

	// HallucinationMisleadingSecondary means the citation points to a real
	// secondary source that does not support the claim as characterised.
	HallucinationMisleadingSecondary HallucinationCategory = "misleading_secondary"

	// HallucinationChainedFalse means the citation was derived from another
	// fabricated citation (a hallucination citing a hallucination).
	HallucinationChainedFalse HallucinationCategory = "chained_false"

	// HallucinationNeedsManualReview means automatic classification could
	// not confidently assign one of the above categories.
	HallucinationNeedsManualReview HallucinationCategory = "needs_manual_review"
)

// Taxonomy lists the closed set of eight substantive hallucination
// categories (excluding None and NeedsManualReview, which are not failure
// modes in their own right).
var Taxonomy = []HallucinationCategory{
	HallucinationFabricatedCiteAndCase,
	HallucinationWrongNameRightCite,
	HallucinationRightNameWrongCite,
	HallucinationConflatedAuthorities,
	HallucinationCorrectLawInventedAuthority,
	HallucinationRealCaseMisstated,
	HallucinationMisleadingSecondary,
	HallucinationChainedFalse,
}
