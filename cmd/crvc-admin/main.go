package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/legalaudit/crvc/internal/admin/commands"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crvc-admin",
		Short: "CRVC administration CLI",
		Long: `crvc-admin runs the Citation Resolution and Verification Core's core
operations (resolve, fetch, parse, verify, batch) one-shot from the command
line, and manages the worker pool, cache, queue, and job store alongside it.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "configs/default.yaml", "Config file path")
	rootCmd.PersistentFlags().StringP("env", "e", "development", "Environment (development, staging, production)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")

	// Core operations, one per spec.md §6 (exit codes: 0 success, 1
	// InputInvalid, 2 execution error -- see commands.CLIError).
	rootCmd.AddCommand(commands.NewResolveCmd())
	rootCmd.AddCommand(commands.NewFetchCmd())
	rootCmd.AddCommand(commands.NewParseCmd())
	rootCmd.AddCommand(commands.NewVerifyCmd())
	rootCmd.AddCommand(commands.NewBatchCmd())

	// Ops subcommands
	rootCmd.AddCommand(commands.NewWorkerCmd())
	rootCmd.AddCommand(commands.NewCacheCmd())
	rootCmd.AddCommand(commands.NewQueueCmd())
	rootCmd.AddCommand(commands.NewHealthCmd())
	rootCmd.AddCommand(commands.NewConfigCmd())
	rootCmd.AddCommand(commands.NewMetricsCmd())
	rootCmd.AddCommand(commands.NewBackupCmd())
	rootCmd.AddCommand(commands.NewMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code := 2
		var cliErr *commands.CLIError
		if errors.As(err, &cliErr) {
			code = cliErr.Code
		}
		os.Exit(code)
	}
}
