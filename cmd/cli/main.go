package main

import (
	"fmt"
	"github.com/gizahealth/inspector/cmd/cli/checklist"
	"github.com/gizahealth/inspector/cmd/cli/report"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"os"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{ //nolint:exhaustruct // cobra commands are sparse
		Use:          "inspector-cli",
		Long:         `Command line utilities for the Giza facility inspection service`,
		SilenceUsage: true,
	}
	rootCmd.AddGroup(checklist.Group, report.Group)
	rootCmd.AddCommand(checklist.NewCatalog(), checklist.NewFacilities())
	rootCmd.AddCommand(report.NewAnalyze(os.LookupEnv), report.NewDashboard())
	return rootCmd
}

func main() {
	// The .env file is optional, real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
