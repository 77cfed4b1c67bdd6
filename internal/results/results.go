// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package results defines the analysis output types that resultpush uploads:
// per-tool findings, per-file grouping, and per-language code metrics.
package results

import (
	"cmp"
	"slices"
)

// Kind discriminates the ToolResult variants.
type Kind string

// ToolResult kinds.
const (
	KindIssue     Kind = "issue"
	KindFileError Kind = "fileError"
)

// ToolResult is a single finding or failure reported by a static-analysis tool.
// It is implemented by Issue and FileError.
type ToolResult interface {
	// Kind reports which variant this is.
	Kind() Kind

	// File returns the path of the file the result belongs to.
	File() string
}

// Issue is a finding at a specific line of a file.
type Issue struct {
	Filename  string `json:"filename"`
	Line      int    `json:"line"`
	PatternID string `json:"patternId"`
	Message   string `json:"message"`
	Level     Level  `json:"level"`
	Category  string `json:"category,omitempty"`
}

// Kind returns KindIssue.
func (Issue) Kind() Kind { return KindIssue }

// File returns the issue's file path.
func (i Issue) File() string { return i.Filename }

// FileError records a tool failing to analyze a file.
type FileError struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// Kind returns KindFileError.
func (FileError) Kind() Kind { return KindFileError }

// File returns the path of the file that could not be analyzed.
func (e FileError) File() string { return e.Filename }

// Level is the severity of an Issue.
type Level string

// Issue levels, from most to least severe.
const (
	LevelError   Level = "Error"
	LevelWarning Level = "Warning"
	LevelInfo    Level = "Info"
)

// ToolResults is one tool's output for the whole analyzed project.
type ToolResults struct {
	// Tool is the tool name (e.g. "eslint").
	Tool string

	// ToolUUID identifies the tool on the remote side. Optional.
	ToolUUID string

	// Filenames is every file the tool analyzed. It may contain files that
	// have no entry in Results.
	Filenames []string

	// Results are the tool's issues and file errors.
	Results []ToolResult
}

// FileResults groups the results that belong to one file. It is the unit sent
// to the remote service for each batch entry.
type FileResults struct {
	Filename string       `json:"filename"`
	Results  []ToolResult `json:"results"`
}

// LineComplexity is the cyclomatic complexity attributed to a single line.
type LineComplexity struct {
	Line  int `json:"line"`
	Value int `json:"value"`
}

// FileMetrics holds code metrics for one file. Nil fields were not measured.
type FileMetrics struct {
	Filename         string           `json:"filename"`
	Complexity       *int             `json:"complexity,omitempty"`
	LOC              *int             `json:"loc,omitempty"`
	CLOC             *int             `json:"cloc,omitempty"`
	NrMethods        *int             `json:"nrMethods,omitempty"`
	NrClasses        *int             `json:"nrClasses,omitempty"`
	LineComplexities []LineComplexity `json:"lineComplexities,omitempty"`
}

// MetricsResult aggregates FileMetrics for a set of files, as produced by one
// metrics run. AnalysisError is set when the run failed.
type MetricsResult struct {
	Files         []FileMetrics `json:"files"`
	AnalysisError string        `json:"analysisError,omitempty"`
}

// MetricsResults is the metrics output for one language.
type MetricsResults struct {
	Language string
	Metrics  []MetricsResult
}

// GroupByFile groups results by file path. The returned slice is sorted by
// filename and each group keeps the relative order of its results.
func GroupByFile(rs []ToolResult) []FileResults {
	if len(rs) == 0 {
		return nil
	}
	byFile := make(map[string][]ToolResult)
	for _, r := range rs {
		byFile[r.File()] = append(byFile[r.File()], r)
	}
	groups := make([]FileResults, 0, len(byFile))
	for name, group := range byFile {
		groups = append(groups, FileResults{Filename: name, Results: group})
	}
	slices.SortFunc(groups, func(a, b FileResults) int {
		return cmp.Compare(a.Filename, b.Filename)
	})
	return groups
}

// Normalize returns rs sorted into a canonical order with exact duplicates
// removed. The input slice is not modified.
func Normalize(rs []ToolResult) []ToolResult {
	out := slices.Clone(rs)
	slices.SortStableFunc(out, Compare)
	return slices.CompactFunc(out, func(a, b ToolResult) bool {
		return Compare(a, b) == 0
	})
}

// Compare orders results by file, line, kind, pattern and message.
// FileErrors sort before Issues of the same file.
func Compare(a, b ToolResult) int {
	if c := cmp.Compare(a.File(), b.File()); c != 0 {
		return c
	}
	al, ap, am := sortKey(a)
	bl, bp, bm := sortKey(b)
	if c := cmp.Compare(al, bl); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}
	if c := cmp.Compare(ap, bp); c != 0 {
		return c
	}
	return cmp.Compare(am, bm)
}

func sortKey(r ToolResult) (line int, pattern, message string) {
	switch v := r.(type) {
	case Issue:
		return v.Line, v.PatternID + "\x00" + string(v.Level) + "\x00" + v.Category, v.Message
	case FileError:
		return 0, "", v.Message
	default:
		return 0, "", ""
	}
}
