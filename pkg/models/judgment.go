package models

import "time"

// ParserMethod records which Judgment Parser strategy produced a Judgment.
type ParserMethod string

const (
	ParserMethodAkomaNtosoXML ParserMethod = "akoma_ntoso_xml"
	ParserMethodHTML          ParserMethod = "html"
)

// ParserTrace records how a Judgment was produced, for audit and debugging.
type ParserTrace struct {
	Method   ParserMethod `json:"method"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Paragraph is one numbered unit of judgment text.
type Paragraph struct {
	Number     string `json:"number"`
	OriginalID string `json:"original_id,omitempty"`
	Text       string `json:"text"`
	Speaker    string `json:"speaker,omitempty"`
}

// Judgment is the normalised, parser-independent representation of a case.
type Judgment struct {
	Title             string       `json:"title"`
	CaseName          string       `json:"case_name"`
	NeutralCitation   string       `json:"neutral_citation,omitempty"`
	Court             string       `json:"court,omitempty"`
	Date              string       `json:"date,omitempty"`
	Paragraphs        []Paragraph  `json:"paragraphs"`
	FullText          string       `json:"full_text"`
	SourceURL         string       `json:"source_url"`
	Source            Source       `json:"source,omitempty"`
	Attribution       string       `json:"attribution,omitempty"`
	ParserTrace       ParserTrace  `json:"parser_trace"`
	RetrievedAt       time.Time    `json:"retrieved_at"`
}

// HasSubstantialText reports whether the Judgment carries enough text to be
// treated as "successfully retrieved" for verification purposes.
func (j *Judgment) HasSubstantialText() bool {
	return len(j.FullText) > 100
}
