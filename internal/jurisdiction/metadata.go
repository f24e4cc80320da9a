package jurisdiction

import (
	"strings"

	"github.com/legalaudit/crvc/pkg/models"
)

// Known archive hosts, mirroring the two-host allow-list this audit is
// restricted to (spec.md §6 / internal/compliance.Policy).
const (
	PrimaryArchiveHost   = "caselaw.nationalarchives.gov.uk"
	SecondaryArchiveHost = "bailii.org"
)

// SourceForHost classifies a URL host as the primary or secondary archive,
// tolerating a leading "www.". Returns ok=false for any other host.
func SourceForHost(host string) (source string, ok bool) {
	h := strings.ToLower(strings.TrimPrefix(strings.ToLower(host), "www."))
	switch h {
	case PrimaryArchiveHost:
		return "primary_archive", true
	case SecondaryArchiveHost:
		return "secondary_archive", true
	default:
		return "", false
	}
}

// IsPrecedential reports whether decisions of a court at this level are
// treated as binding/persuasive authority rather than first-instance fact
// finding. Supreme, appellate, and High Court decisions are precedential;
// tribunal decisions below the Upper Tribunal generally are not, but this
// audit only distinguishes at the level granularity it models.
func IsPrecedential(level models.CourtLevel) bool {
	switch level {
	case models.CourtLevelSupreme, models.CourtLevelAppellate, models.CourtLevelHigh:
		return true
	default:
		return false
	}
}

// divisionSynonyms maps a division abbreviation to the canonical neutral
// citation court code it resolves to, covering the King's/Queen's Bench
// rename across reigns (spec.md §4.1's EWHC division list).
var divisionSynonyms = map[string]string{
	"QB":  "EWHC QB",
	"KB":  "EWHC KB",
	"CH":  "EWHC Ch",
	"FAM": "EWHC Fam",
	"TCC": "EWHC TCC",
	"COMM": "EWHC Comm",
	"PAT": "EWHC Pat",
	"ADMIN": "EWHC Admin",
}

// NormalizeEWHCDivision maps a bare division token (as it appears inside the
// parentheses of an EWHC neutral citation) to its registered court code.
func NormalizeEWHCDivision(division string) (string, bool) {
	code, ok := divisionSynonyms[strings.ToUpper(strings.TrimSpace(division))]
	return code, ok
}
