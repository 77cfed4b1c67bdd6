// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package main

import "fmt"

// Exit codes for the resultpush CLI.
const (
	ExitOK              = 0 // Every remote call succeeded, or nothing was to be uploaded.
	ExitInvalidArgs     = 1 // Invalid arguments, config, input files or credentials.
	ExitUploadFailed    = 2 // Some remote calls failed; part of the data was accepted.
	ExitNothingUploaded = 3 // No data was accepted, or validation found problems.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitUploadFailed:
			msg = "resultpush: some uploads failed"
		case ExitNothingUploaded:
			msg = "resultpush: nothing was uploaded"
		default:
			msg = "resultpush: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
