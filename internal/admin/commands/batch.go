package commands

import (
	"context"
	"encoding/json"
	"os"

	"github.com/legalaudit/crvc/internal/pipeline"
	"github.com/spf13/cobra"
)

// batchCitation is one entry of a `batch` input file.
type batchCitation struct {
	Text     string `json:"text"`
	CaseName string `json:"case_name,omitempty"`
}

// NewBatchCmd resolves a batch of citations read from an input file through
// the Pipeline Orchestrator (spec.md §6's `batch` operation).
func NewBatchCmd() *cobra.Command {
	var (
		jobID  string
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve a batch of citations from an input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return inputInvalid("--input is required")
			}

			body, err := os.ReadFile(input)
			if err != nil {
				return executionError(err)
			}
			var citations []batchCitation
			if err := json.Unmarshal(body, &citations); err != nil {
				return inputInvalid("--input does not contain a valid citation list: " + err.Error())
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return executionError(err)
			}

			_, r := newResolverStack(cfg)
			orchestrator := pipeline.New(r)

			requests := make([]pipeline.Request, len(citations))
			for i, c := range citations {
				requests[i] = pipeline.Request{CitationText: c.Text, CaseName: c.CaseName}
			}

			resolutions := orchestrator.ResolveMany(context.Background(), requests, pipeline.Options{})

			return writeJobOutput(output, jobID, resolutions)
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "job identifier to tag the output with")
	cmd.Flags().StringVar(&input, "input", "", "path to a JSON array of {text, case_name} citations")
	cmd.Flags().StringVar(&output, "output", "", "path to write the result JSON (defaults to stdout)")

	return cmd
}
