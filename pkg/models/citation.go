package models

// CitationFormKind is the closed tag of a Citation's parsed form.
type CitationFormKind string

const (
	CitationFormNeutral  CitationFormKind = "neutral"
	CitationFormReporter CitationFormKind = "reporter"
	CitationFormUnknown  CitationFormKind = "unknown"
)

// NeutralForm is a court-issued neutral citation: [YEAR] COURT NUMBER (DIVISION?).
type NeutralForm struct {
	Court    string `json:"court"`
	Year     int    `json:"year"`
	Number   int    `json:"number"`
	Division string `json:"division,omitempty"`
}

// ReporterForm is a traditional law-report citation with no canonical URL.
type ReporterForm struct {
	Year     int    `json:"year"`
	Volume   string `json:"volume,omitempty"`
	Reporter string `json:"reporter"`
	Page     string `json:"page"`
}

// Citation is the parsed form of a reference found in a document.
type Citation struct {
	RawText  string           `json:"raw_text" validate:"required"`
	Form     CitationFormKind `json:"form" validate:"required"`
	Neutral  *NeutralForm     `json:"neutral,omitempty"`
	Reporter *ReporterForm    `json:"reporter,omitempty"`
	CaseName string           `json:"case_name,omitempty"`

	// Position is the byte offset range [Start, End) in the source document,
	// or nil when the citation did not come from a positioned scan.
	Position *CitationPosition `json:"position,omitempty"`
}

// CitationPosition locates a citation match inside a source document.
type CitationPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IsRecognised reports whether the citation matched a known dialect.
func (c *Citation) IsRecognised() bool {
	return c.Form != CitationFormUnknown && c.Form != ""
}

// ReporterAbbreviations is the closed set of recognised reporter series.
// Order does not matter; membership does. "All ER" and "Lloyd's Rep" and
// "Cr App R" and "P&CR" contain spaces/punctuation and are matched as
// literal phrases by the grammar, not as single tokens.
var ReporterAbbreviations = map[string]bool{
	"AC":           true,
	"QB":           true,
	"KB":           true,
	"Ch":           true,
	"WLR":          true,
	"All ER":       true,
	"Fam":          true,
	"ICR":          true,
	"IRLR":         true,
	"BCLC":         true,
	"Cr App R":     true,
	"Lloyd's Rep":  true,
	"P&CR":         true,
}
