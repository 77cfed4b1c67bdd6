// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package ingest

import (
	"fmt"
	"strings"

	"github.com/davetashner/resultpush/internal/results"
)

// ValidLevels are the issue levels the remote service accepts.
var ValidLevels = []results.Level{results.LevelError, results.LevelWarning, results.LevelInfo}

// ValidationError is a single problem found in an input document.
type ValidationError struct {
	Path       string // location in the document, e.g. tools[0].results[3]
	Field      string // field name (empty if the whole entry is wrong)
	Message    string // what's wrong
	Suggestion string // how to fix it
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s.%s: %s", e.Path, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result contains the outcome of validating a document.
type Result struct {
	Tools   int
	Results int
	Metrics int
	Errors  []ValidationError
}

// Valid returns true if no errors were found.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(path, field, msg, suggestion string) {
	r.Errors = append(r.Errors, ValidationError{Path: path, Field: field, Message: msg, Suggestion: suggestion})
}

// Validate checks a document for problems the remote service would reject.
// It reports every problem rather than stopping at the first.
func Validate(doc *Document) *Result {
	res := &Result{Tools: len(doc.Tools)}
	res.Results, res.Metrics = doc.Counts()

	seen := make(map[string]int)
	for ti, tr := range doc.Tools {
		path := fmt.Sprintf("tools[%d]", ti)
		if strings.TrimSpace(tr.Tool) == "" {
			res.add(path, "tool", "tool name must not be empty", "set the name of the tool that produced these results")
		} else if prev, dup := seen[tr.Tool+"\x00"+tr.ToolUUID]; dup {
			res.add(path, "tool", fmt.Sprintf("tool %q already listed at tools[%d]", tr.Tool, prev),
				"merge the results of both entries into one")
		} else {
			seen[tr.Tool+"\x00"+tr.ToolUUID] = ti
		}

		for ri, r := range tr.Results {
			validateResult(res, fmt.Sprintf("%s.results[%d]", path, ri), r)
		}
	}

	for mi, mr := range doc.Metrics {
		path := fmt.Sprintf("metrics[%d]", mi)
		if strings.TrimSpace(mr.Language) == "" {
			res.add(path, "language", "language must not be empty", "set the language the metrics were computed for")
		}
		for ri, m := range mr.Metrics {
			for fi, fm := range m.Files {
				validateFileMetrics(res, fmt.Sprintf("%s.metrics[%d].files[%d]", path, ri, fi), fm)
			}
		}
	}
	return res
}

func validateResult(res *Result, path string, r results.ToolResult) {
	if r.File() == "" {
		res.add(path, "filename", "filename must not be empty", "set the path of the file relative to the repository root")
	}
	issue, ok := r.(results.Issue)
	if !ok {
		return
	}
	if issue.Line < 1 {
		res.add(path, "line", fmt.Sprintf("line must be 1 or greater, got %d", issue.Line), "use 1-based line numbers")
	}
	if issue.PatternID == "" {
		res.add(path, "patternId", "patternId must not be empty", "set the id of the rule that produced the issue")
	}
	for _, l := range ValidLevels {
		if issue.Level == l {
			return
		}
	}
	names := make([]string, len(ValidLevels))
	for i, l := range ValidLevels {
		names[i] = string(l)
	}
	res.add(path, "level", fmt.Sprintf("invalid level %q", issue.Level),
		fmt.Sprintf("level must be one of: %s", strings.Join(names, ", ")))
}

func validateFileMetrics(res *Result, path string, fm results.FileMetrics) {
	if fm.Filename == "" {
		res.add(path, "filename", "filename must not be empty", "set the path of the measured file")
	}
	counts := []struct {
		name string
		v    *int
	}{
		{"complexity", fm.Complexity},
		{"loc", fm.LOC},
		{"cloc", fm.CLOC},
		{"nrMethods", fm.NrMethods},
		{"nrClasses", fm.NrClasses},
	}
	for _, c := range counts {
		if c.v != nil && *c.v < 0 {
			res.add(path, c.name, fmt.Sprintf("%s must not be negative, got %d", c.name, *c.v), "omit metrics that were not measured")
		}
	}
}
