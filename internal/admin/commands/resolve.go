package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewResolveCmd resolves a single citation to its candidate judgment URLs
// (spec.md §6's `resolve` operation).
func NewResolveCmd() *cobra.Command {
	var (
		jobID    string
		citation string
		caseName string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a citation to candidate judgment URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if citation == "" {
				return inputInvalid("--citation is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return executionError(err)
			}

			_, r := newResolverStack(cfg)
			resolution := r.ResolveAndFetch(context.Background(), citation, caseName)

			return writeJobOutput(output, jobID, resolution)
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "job identifier to tag the output with")
	cmd.Flags().StringVar(&citation, "citation", "", "citation text to resolve")
	cmd.Flags().StringVar(&caseName, "case-name", "", "optional case name hint")
	cmd.Flags().StringVar(&output, "output", "", "path to write the result JSON (defaults to stdout)")

	return cmd
}

// writeJobOutput wraps result under job_id and writes it as JSON to path,
// or to stdout when path is empty.
func writeJobOutput(path, jobID string, result interface{}) error {
	payload := map[string]interface{}{
		"job_id": jobID,
		"result": result,
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return executionError(fmt.Errorf("encoding result: %w", err))
	}
	if path == "" {
		fmt.Println(string(body))
		return nil
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return executionError(fmt.Errorf("writing output: %w", err))
	}
	return nil
}
