package models

// CourtLevel is the hierarchical tier of a UK court, used by the Search
// Resolver's deterministic court inference (spec.md §4.5 step 2).
type CourtLevel int

const (
	CourtLevelSupreme CourtLevel = iota + 1
	CourtLevelAppellate
	CourtLevelHigh
	CourtLevelTribunal
)

// CourtDescriptor names one recognised UK court/division for templating,
// search-probing, and attribution purposes.
type CourtDescriptor struct {
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Level        CourtLevel `json:"level"`
	PathSegment  string     `json:"path_segment"`
}
