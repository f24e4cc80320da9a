package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewFetchCmd retrieves and caches one URL through the compliance-gated
// Fetcher (spec.md §6's `fetch` operation).
func NewFetchCmd() *cobra.Command {
	var (
		jobID  string
		url    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and cache a single judgment URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return inputInvalid("--url is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return executionError(err)
			}

			f, _ := newResolverStack(cfg)
			result, err := f.Fetch(context.Background(), url)
			if err != nil {
				return executionError(err)
			}

			return writeJobOutput(output, jobID, result)
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "job identifier to tag the output with")
	cmd.Flags().StringVar(&url, "url", "", "URL to fetch")
	cmd.Flags().StringVar(&output, "output", "", "path to write the result JSON (defaults to stdout)")

	return cmd
}
