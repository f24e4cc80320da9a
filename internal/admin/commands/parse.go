package commands

import (
	"os"

	"github.com/legalaudit/crvc/internal/judgment"
	"github.com/spf13/cobra"
)

// NewParseCmd runs the Judgment Parser over a body already cached on disk
// by a prior `fetch` (spec.md §6's `parse` operation).
func NewParseCmd() *cobra.Command {
	var (
		jobID     string
		cachePath string
		url       string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a cached judgment body",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cachePath == "" {
				return inputInvalid("--cache-path is required")
			}

			body, err := os.ReadFile(cachePath)
			if err != nil {
				return executionError(err)
			}

			result, err := judgment.Parse(body, "", url)
			if err != nil {
				return executionError(err)
			}

			return writeJobOutput(output, jobID, result)
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "job identifier to tag the output with")
	cmd.Flags().StringVar(&cachePath, "cache-path", "", "path to the cached document body")
	cmd.Flags().StringVar(&url, "url", "", "source URL the cached body came from")
	cmd.Flags().StringVar(&output, "output", "", "path to write the result JSON (defaults to stdout)")

	return cmd
}
