package models

// Source identifies which public archive a CandidateUrl or Judgment came from.
type Source string

const (
	SourcePrimaryArchive   Source = "primary_archive"
	SourceSecondaryArchive Source = "secondary_archive"
)

// ResolutionMethod is how a CandidateUrl was produced.
type ResolutionMethod string

const (
	MethodTemplateDirect  ResolutionMethod = "template_direct"
	MethodSearch          ResolutionMethod = "search"
	MethodCitationFinder  ResolutionMethod = "citation_finder"
)

// CandidateUrl is a proposed retrieval target for a citation.
type CandidateUrl struct {
	URL         string           `json:"url" validate:"required"`
	Source      Source           `json:"source" validate:"required"`
	Method      ResolutionMethod `json:"method" validate:"required"`
	Confidence  float64          `json:"confidence" validate:"min=0,max=1"`
	Title       string           `json:"title,omitempty"`
	DocumentURI string           `json:"document_uri,omitempty"`
}

// ResolutionStatus is the outcome of attempting to resolve a citation.
type ResolutionStatus string

const (
	ResolutionResolved     ResolutionStatus = "resolved"
	ResolutionAmbiguous    ResolutionStatus = "ambiguous"
	ResolutionUnresolvable ResolutionStatus = "unresolvable"
)

// Resolution is the result of resolving one citation to candidate URLs.
type Resolution struct {
	CitationText string           `json:"citation_text"`
	Citation     *Citation        `json:"citation,omitempty"`
	Status       ResolutionStatus `json:"status"`
	Candidates   []CandidateUrl   `json:"candidates"`
	Judgment     *Judgment        `json:"judgment,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	Cancelled    bool             `json:"cancelled,omitempty"`
	Error        string           `json:"error,omitempty"`
}
