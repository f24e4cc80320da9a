package commands

import (
	"fmt"

	"github.com/legalaudit/crvc/internal/config"
	"github.com/spf13/cobra"
)

// CLIError carries the exit code crvc-admin's main() should use, matching
// spec.md §6's "0 success, 1 InputInvalid, 2 execution error" contract.
type CLIError struct {
	Code int
	Err  error
}

func (e *CLIError) Error() string { return e.Err.Error() }
func (e *CLIError) Unwrap() error { return e.Err }

// inputInvalid reports a usage/validation failure (exit code 1).
func inputInvalid(msg string) error {
	return &CLIError{Code: 1, Err: fmt.Errorf("%s", msg)}
}

// executionError reports a runtime failure once inputs were accepted
// (exit code 2).
func executionError(err error) error {
	return &CLIError{Code: 2, Err: err}
}

// loadConfig loads the config file named by the --config persistent flag,
// shared by every admin subcommand.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		fmt.Printf("Loading config from: %s\n", configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
