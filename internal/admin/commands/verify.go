package commands

import (
	"encoding/json"
	"os"

	"github.com/legalaudit/crvc/internal/verifier"
	"github.com/legalaudit/crvc/pkg/models"
	"github.com/spf13/cobra"
)

// NewVerifyCmd checks a claim against an authority Judgment already on disk
// (spec.md §6's `verify` operation).
func NewVerifyCmd() *cobra.Command {
	var (
		claim         string
		citation      string
		authorityJSON string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a claim against an authority judgment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if claim == "" {
				return inputInvalid("--claim is required")
			}
			if authorityJSON == "" {
				return inputInvalid("--authority-json is required")
			}

			body, err := os.ReadFile(authorityJSON)
			if err != nil {
				return executionError(err)
			}
			var j models.Judgment
			if err := json.Unmarshal(body, &j); err != nil {
				return executionError(err)
			}

			result := verifier.Verify(claim, citation, &j, models.ResolutionResolved)

			return writeJobOutput(output, "", result)
		},
	}

	cmd.Flags().StringVar(&claim, "claim", "", "claim text to verify")
	cmd.Flags().StringVar(&citation, "citation", "", "citation the claim is attributed to")
	cmd.Flags().StringVar(&authorityJSON, "authority-json", "", "path to the authority Judgment JSON")
	cmd.Flags().StringVar(&output, "output", "", "path to write the result JSON (defaults to stdout)")

	return cmd
}
