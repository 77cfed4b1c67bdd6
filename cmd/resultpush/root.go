// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	rplog "github.com/davetashner/resultpush/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for resultpush.
var rootCmd = &cobra.Command{
	Use:   "resultpush",
	Short: "Upload local analysis results to the aggregation service",
	Long: `Resultpush uploads the results of a local static analysis run (native JSON
or SARIF) and per-file metrics for one commit to the remote aggregation
service. Results are filtered through the project's remote configuration,
sent in concurrent batches, and the commit is closed with an end-of-results
signal once every batch has settled.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		rplog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
