package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/legalaudit/crvc/pkg/models"
)

// ExportFormat is the closed set of formats SPEC_FULL.md §6.7 names: pure
// in-memory conversion for programmatic callers, not report-file
// persistence.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// Bundle is a Resolution/VerificationOutcome bundle (SPEC_FULL.md §6.7).
// Either field may be empty depending on what the caller is exporting.
type Bundle struct {
	Resolutions   []*models.Resolution   `json:"resolutions,omitempty"`
	Verifications []*models.Verification `json:"verifications,omitempty"`
}

// Exporter renders a Bundle to one of the closed set of formats.
type Exporter struct {
	format ExportFormat
	writer io.Writer
}

// NewExporter creates a new exporter
func NewExporter(format ExportFormat, writer io.Writer) *Exporter {
	return &Exporter{
		format: format,
		writer: writer,
	}
}

// Export renders bundle in the exporter's format.
func (e *Exporter) Export(bundle Bundle) error {
	switch e.format {
	case FormatJSON:
		return e.exportJSON(bundle)
	case FormatCSV:
		return e.exportCSV(bundle)
	default:
		return fmt.Errorf("unsupported export format: %s", e.format)
	}
}

func (e *Exporter) exportJSON(bundle Bundle) error {
	encoder := json.NewEncoder(e.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(bundle)
}

// exportCSV writes resolutions and verifications as two CSV tables, one
// after the other, each with its own header row.
func (e *Exporter) exportCSV(bundle Bundle) error {
	writer := csv.NewWriter(e.writer)
	defer writer.Flush()

	if len(bundle.Resolutions) > 0 {
		if err := writer.Write([]string{"citation_text", "status", "candidate_count", "case_name", "court", "notes"}); err != nil {
			return err
		}
		for _, r := range bundle.Resolutions {
			var caseName, court string
			if r.Judgment != nil {
				caseName = r.Judgment.CaseName
				court = r.Judgment.Court
			}
			row := []string{
				r.CitationText,
				string(r.Status),
				strconv.Itoa(len(r.Candidates)),
				caseName,
				court,
				r.Notes,
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	if len(bundle.Verifications) > 0 {
		writer.Flush()
		if err := writer.Write([]string{"claim_text", "citation_text", "outcome", "confidence", "category", "notes"}); err != nil {
			return err
		}
		for _, v := range bundle.Verifications {
			row := []string{
				v.ClaimText,
				v.CitationText,
				string(v.Outcome),
				strconv.FormatFloat(v.Confidence, 'f', 2, 64),
				string(v.Category),
				v.Notes,
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

// ExportOptions holds options for export operations.
type ExportOptions struct {
	Format ExportFormat `json:"format"`
	Pretty bool         `json:"pretty"`
}

// DefaultExportOptions returns default export options
func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		Format: FormatJSON,
		Pretty: true,
	}
}
