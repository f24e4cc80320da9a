// Package templator implements the URL Templator: a pure function from a
// recognised Neutral citation to its ordered candidate public URLs. It
// performs no I/O and never reasons about Reporter citations (those are
// left to internal/search, spec.md §4.2).
package templator

import (
	"fmt"
	"strings"

	"github.com/legalaudit/crvc/internal/jurisdiction"
	"github.com/legalaudit/crvc/pkg/models"
)

const (
	primaryHost   = "caselaw.nationalarchives.gov.uk"
	secondaryHost = "bailii.org"
)

// Templator builds deterministic candidate URLs from a Citation's Neutral
// form using the UK court registry for path-segment lookups.
type Templator struct {
	hierarchy *jurisdiction.CourtHierarchy
}

func New() *Templator {
	return &Templator{hierarchy: jurisdiction.NewCourtHierarchy()}
}

// Candidates emits the primary-archive candidate first, then the
// secondary-archive candidate, for a Neutral citation. Reporter and Unknown
// citations yield no candidates, forcing the Search Resolver fallback path.
func (t *Templator) Candidates(c *models.Citation) []models.CandidateUrl {
	if c == nil || c.Form != models.CitationFormNeutral || c.Neutral == nil {
		return nil
	}
	n := c.Neutral

	code := n.Court
	if n.Division != "" {
		code = n.Court + " " + n.Division
	}
	desc, ok := t.hierarchy.Lookup(code)
	if !ok {
		return nil
	}

	var out []models.CandidateUrl

	primaryURL := fmt.Sprintf("https://%s/%s/%d/%d/data.xml", primaryHost, desc.PathSegment, n.Year, n.Number)
	out = append(out, models.CandidateUrl{
		URL:        primaryURL,
		Source:     models.SourcePrimaryArchive,
		Method:     models.MethodTemplateDirect,
		Confidence: 0.9,
	})

	secondaryURL := fmt.Sprintf("https://%s/%s/cases/%s/%d/%d.html",
		secondaryHost, bailiiJurisdictionSegment(n.Court), bailiiCourtSegment(n.Court, n.Division), n.Year, n.Number)
	out = append(out, models.CandidateUrl{
		URL:        secondaryURL,
		Source:     models.SourceSecondaryArchive,
		Method:     models.MethodTemplateDirect,
		Confidence: 0.9,
	})

	return out
}

// bailiiJurisdictionSegment returns BAILII's top-level jurisdiction
// directory: England & Wales courts sit under /ew/, UK-wide courts and
// tribunals sit under /uk/.
func bailiiJurisdictionSegment(court string) string {
	switch court {
	case "EWCA", "EWHC":
		return "ew"
	default:
		return "uk"
	}
}

// bailiiCourtSegment lowercases the court code and division, matching the
// primary archive's PathSegment casing and producing no trailing slash.
func bailiiCourtSegment(court, division string) string {
	if division == "" {
		return strings.ToLower(court)
	}
	return strings.ToLower(court) + "/" + strings.ToLower(division)
}
