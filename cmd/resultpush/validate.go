// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davetashner/resultpush/internal/ingest"
)

// Validate-specific flag values.
var validateFormat string

// validateCmd checks input files without contacting the remote service.
var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Validate results and metrics files",
	Long: `Validate native resultpush JSON or SARIF files before uploading them.

Checks that every tool has a name, every result names a file and a message,
line numbers and metrics are not negative, and reports each problem with a
fix suggestion. Nothing is sent to the remote service.

Examples:
  resultpush validate results.json
  resultpush validate --format sarif eslint.out`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "auto", "input format: auto, json, sarif")
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := ingest.ParseFormat(validateFormat)
	if err != nil {
		return exitError(ExitInvalidArgs, "resultpush: %v", err)
	}

	doc, err := readInputs("", format, args)
	if err != nil {
		return err
	}

	res := ingest.Validate(doc)
	if !res.Valid() {
		printValidationErrors(cmd, res)
		return exitError(ExitNothingUploaded, "resultpush: input is not valid")
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid: %d tools, %d results, %d metrics payloads\n",
		res.Tools, res.Results, res.Metrics)
	return nil
}

// printValidationErrors writes each problem and its fix to stderr.
func printValidationErrors(cmd *cobra.Command, res *ingest.Result) {
	w := cmd.ErrOrStderr()
	for _, e := range res.Errors {
		_, _ = fmt.Fprintf(w, "%s:", e.Path)
		if e.Field != "" {
			_, _ = fmt.Fprintf(w, " %s:", e.Field)
		}
		_, _ = fmt.Fprintf(w, " %s\n", e.Message)
		if e.Suggestion != "" {
			_, _ = fmt.Fprintf(w, "  fix: %s\n", e.Suggestion)
		}
	}
	_, _ = fmt.Fprintf(w, "\n%d error(s) found\n", len(res.Errors))
}
