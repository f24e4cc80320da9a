// Package plugins implements the capability-interface pattern of
// SPEC_FULL.md's design notes: optional extensions are typed interfaces
// resolved once at construction, never a runtime feature-flag/attribute
// check. Two capabilities matter most to the CRVC: an HtmlParser/
// PdfTextExtractor pair standing in for the out-of-scope "Document Text
// Source" (spec.md §1's opaque upstream document ingestion), and an
// ArchiveSourcePlugin seam for additional judgment sources beyond the two
// built into the Fetcher/Templator, even though the current allow-list is
// closed to exactly two hosts.
package plugins

import (
	"context"

	"github.com/legalaudit/crvc/pkg/models"
)

// Plugin is the base interface every capability implements.
type Plugin interface {
	Name() string
	Version() string
	Description() string
	Init(config map[string]interface{}) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health() error
}

// ArchiveSourcePlugin extends Plugin for a judgment source the Fetcher can
// be configured to query, beyond the built-in primary/secondary archives.
// No SPEC_FULL.md component currently registers one (the domain allow-list
// is a closed two-host set), but the seam exists so a future allow-listed
// archive does not require touching the Resolver's call sites.
type ArchiveSourcePlugin interface {
	Plugin

	// FetchCandidates proposes candidate URLs for a citation, in the same
	// shape the Templator and Search Resolver produce.
	FetchCandidates(ctx context.Context, c *models.Citation) ([]models.CandidateUrl, error)

	// IsAvailable reports whether the source can currently be reached.
	IsAvailable(ctx context.Context) bool

	// Host returns the domain this plugin would need adding to the
	// allow-list to be used.
	Host() string
}

// JudgmentEnricherPlugin extends Plugin for post-parse judgment
// enrichment (e.g. a better paragraph-speaker detector for a specific
// court's house style) that runs after the Judgment Parser but before the
// Verifier sees the result.
type JudgmentEnricherPlugin interface {
	Plugin

	// Process returns a possibly-modified Judgment.
	Process(ctx context.Context, j *models.Judgment) (*models.Judgment, error)

	// CanProcess reports whether this enricher applies to j.
	CanProcess(j *models.Judgment) bool

	// Priority orders enrichers when more than one applies (higher runs first).
	Priority() int
}

// ValidatorPlugin extends Plugin for an alternative or supplementary
// Existence Validator strategy (spec.md §9's Open Question (c) names a
// structural heading/link-count check as one candidate replacement for
// the fixed legal-indicator-term list).
type ValidatorPlugin interface {
	Plugin

	Validate(ctx context.Context, body []byte, source models.Source) ([]ValidationError, error)
	Severity() ValidationSeverity
}

// ExporterPlugin extends Plugin for a report export format beyond the
// built-in ones in internal/export (spec.md §6's caller-facing Resolution
// output, rendered as this plugin's format instead of JSON/CSV).
type ExporterPlugin interface {
	Plugin

	Export(ctx context.Context, resolutions []*models.Resolution) ([]byte, error)
	FileExtension() string
	MIMEType() string
}

// MiddlewarePlugin extends Plugin for HTTP middleware on the (out-of-scope)
// API surface; kept generic since no CRVC type is involved.
type MiddlewarePlugin interface {
	Plugin

	Handler() func(next func(c interface{}) error) func(c interface{}) error
	Order() int
}

// HtmlParser is the capability interface standing in for the Judgment
// Parser's HTML strategy when a caller wants to swap in a different HTML
// engine than goquery without the Judgment package needing to know about
// it (spec.md §9 design note (b): "Optional dependencies guarded by import
// flags — replace with capability interfaces").
type HtmlParser interface {
	ParseHTML(body []byte, sourceURL string) (*models.Judgment, error)
}

// PdfTextExtractor is the capability interface for the out-of-scope
// Document Text Source (spec.md §1): extracting plain text from a user's
// uploaded PDF/DOCX so its citations can be scanned by the Citation
// Grammar. The CRVC core never implements one; absence is a typed
// ErrExtractorUnavailable, not a missing-import runtime check.
type PdfTextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// ErrExtractorUnavailable is the typed error for a missing
// PdfTextExtractor. No PdfTextExtractor implementation exists in this
// repository, and no code in it returns this error.
var ErrExtractorUnavailable = &PluginError{Op: "extract_text", Message: "no PdfTextExtractor implementation configured"}

// PluginError is a typed unavailability/failure signal for capability
// interfaces, replacing the teacher's ad-hoc error strings.
type PluginError struct {
	Op      string
	Message string
}

func (e *PluginError) Error() string { return e.Op + ": " + e.Message }

// ValidationError represents one plugin-reported validation failure.
type ValidationError struct {
	Field    string
	Message  string
	Severity ValidationSeverity
}

// ValidationSeverity is the severity of a plugin-reported ValidationError.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
	SeverityInfo    ValidationSeverity = "info"
)

// Metadata describes a registered plugin for introspection/listing.
type Metadata struct {
	Name        string                 `json:"name"`
	Version     string                 `json:"version"`
	Description string                 `json:"description"`
	Author      string                 `json:"author"`
	License     string                 `json:"license"`
	Homepage    string                 `json:"homepage"`
	Type        PluginType             `json:"type"`
	Config      map[string]interface{} `json:"config"`
}

// PluginType is the closed set of capability kinds this registry tracks.
type PluginType string

const (
	TypeArchiveSource PluginType = "archive_source"
	TypeEnricher      PluginType = "enricher"
	TypeValidator     PluginType = "validator"
	TypeExporter      PluginType = "exporter"
	TypeMiddleware    PluginType = "middleware"
)
