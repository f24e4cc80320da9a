// Package jurisdiction models the UK court hierarchy this audit operates
// over: the closed set of neutral-citation dialects, their primary-archive
// path segments, and the reporter-to-court inference table the Search
// Resolver's deterministic probing strategy depends on.
package jurisdiction

import (
	"strings"

	"github.com/legalaudit/crvc/pkg/models"
)

// CourtHierarchy is a registry of the UK courts and tribunals recognised by
// the citation grammar, keyed by their neutral-citation court code.
type CourtHierarchy struct {
	courts map[string]*models.CourtDescriptor
}

// NewCourtHierarchy builds the hierarchy with the closed set of UK courts
// this audit recognises (spec.md §4.1's neutral-citation dialect list).
func NewCourtHierarchy() *CourtHierarchy {
	ch := &CourtHierarchy{courts: make(map[string]*models.CourtDescriptor)}
	ch.register("UKSC", "UK Supreme Court", models.CourtLevelSupreme, "uksc")
	ch.register("UKPC", "Judicial Committee of the Privy Council", models.CourtLevelSupreme, "ukpc")
	ch.register("UKHL", "House of Lords", models.CourtLevelSupreme, "ukhl")
	ch.register("EWCA Civ", "Court of Appeal (Civil Division)", models.CourtLevelAppellate, "ewca/civ")
	ch.register("EWCA Crim", "Court of Appeal (Criminal Division)", models.CourtLevelAppellate, "ewca/crim")
	ch.register("EWHC Admin", "High Court (Administrative Court)", models.CourtLevelHigh, "ewhc/admin")
	ch.register("EWHC Ch", "High Court (Chancery Division)", models.CourtLevelHigh, "ewhc/ch")
	ch.register("EWHC QB", "High Court (Queen's Bench Division)", models.CourtLevelHigh, "ewhc/qb")
	ch.register("EWHC KB", "High Court (King's Bench Division)", models.CourtLevelHigh, "ewhc/kb")
	ch.register("EWHC Fam", "High Court (Family Division)", models.CourtLevelHigh, "ewhc/fam")
	ch.register("EWHC TCC", "High Court (Technology and Construction Court)", models.CourtLevelHigh, "ewhc/tcc")
	ch.register("EWHC Comm", "High Court (Commercial Court)", models.CourtLevelHigh, "ewhc/comm")
	ch.register("EWHC Pat", "High Court (Patents Court)", models.CourtLevelHigh, "ewhc/pat")
	ch.register("UKUT IAC", "Upper Tribunal (Immigration and Asylum Chamber)", models.CourtLevelTribunal, "ukut/iac")
	ch.register("UKUT LC", "Upper Tribunal (Lands Chamber)", models.CourtLevelTribunal, "ukut/lc")
	ch.register("UKUT TCC", "Upper Tribunal (Tax and Chancery Chamber)", models.CourtLevelTribunal, "ukut/tcc")
	ch.register("UKFTT TC", "First-tier Tribunal (Tax Chamber)", models.CourtLevelTribunal, "ukftt/tc")
	ch.register("UKFTT GRC", "First-tier Tribunal (General Regulatory Chamber)", models.CourtLevelTribunal, "ukftt/grc")
	ch.register("EAT", "Employment Appeal Tribunal", models.CourtLevelTribunal, "eat")
	return ch
}

func (ch *CourtHierarchy) register(code, name string, level models.CourtLevel, pathSegment string) {
	ch.courts[code] = &models.CourtDescriptor{
		Code:        code,
		Name:        name,
		Level:       level,
		PathSegment: pathSegment,
	}
}

// Lookup returns the descriptor for a neutral-citation court code, e.g.
// "EWCA Civ" or "UKSC".
func (ch *CourtHierarchy) Lookup(code string) (*models.CourtDescriptor, bool) {
	d, ok := ch.courts[code]
	return d, ok
}

// All returns every registered court descriptor.
func (ch *CourtHierarchy) All() []*models.CourtDescriptor {
	out := make([]*models.CourtDescriptor, 0, len(ch.courts))
	for _, d := range ch.courts {
		out = append(out, d)
	}
	return out
}

// ReporterCourtCandidates implements the Search Resolver's deterministic
// court-inference table (spec.md §4.5 step 2): given a reporter abbreviation
// and decision year, return the courts whose case numbers should be probed,
// in priority order.
func (ch *CourtHierarchy) ReporterCourtCandidates(reporter string, year int) []*models.CourtDescriptor {
	pick := func(codes ...string) []*models.CourtDescriptor {
		out := make([]*models.CourtDescriptor, 0, len(codes))
		for _, code := range codes {
			if d, ok := ch.courts[code]; ok {
				out = append(out, d)
			}
		}
		return out
	}

	switch strings.ToUpper(strings.TrimSpace(reporter)) {
	case "AC":
		if year >= 2009 {
			return pick("UKSC")
		}
		return pick("UKHL")
	case "QB", "KB":
		return pick("EWHC QB", "EWHC Admin", "EWCA Civ")
	case "CH":
		return pick("EWHC Ch", "EWCA Civ")
	case "FAM":
		return pick("EWHC Fam", "EWCA Civ")
	case "WLR":
		return pick("UKSC", "UKHL", "EWCA Civ")
	default:
		return pick("UKSC", "UKHL", "EWCA Civ")
	}
}
