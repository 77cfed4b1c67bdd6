// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package ingest reads the output of a local analysis run into the result
// types resultpush uploads. Two input formats are understood: the native
// resultpush JSON document and SARIF 2.1.0.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/davetashner/resultpush/internal/results"
)

// Format is an input file format.
type Format string

// Supported formats.
const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatSARIF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %q (available: auto, json, sarif)", s)
	}
}

// Document is everything read from one or more input files.
type Document struct {
	Tools   []results.ToolResults
	Metrics []results.MetricsResults
}

// Options control how input is interpreted.
type Options struct {
	// Root is the repository root. Absolute file URIs under Root are made
	// relative to it.
	Root string
}

// Read decodes one input document. With FormatAuto the format is detected
// from name and content.
func Read(r io.Reader, name string, format Format, opts Options) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if format == FormatAuto || format == "" {
		format = DetectFormat(name, data)
	}

	var doc *Document
	switch format {
	case FormatSARIF:
		doc, err = readSARIF(data, opts)
	case FormatJSON:
		doc, err = readNative(data, opts)
	default:
		return nil, fmt.Errorf("%s: unsupported format %q", name, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

// DetectFormat guesses the format of a document: a .sarif suffix or a
// top-level "runs" key means SARIF, anything else the native format.
func DetectFormat(name string, data []byte) Format {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".sarif") || strings.HasSuffix(lower, ".sarif.json") {
		return FormatSARIF
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &probe); err == nil {
		if _, ok := probe["runs"]; ok {
			return FormatSARIF
		}
	}
	return FormatJSON
}

// Merge combines documents. Results of the same tool and metrics of the same
// language are concatenated; first-seen order is kept. The inputs are not
// modified.
func Merge(docs ...*Document) *Document {
	out := &Document{}
	toolIdx := make(map[string]int)
	langIdx := make(map[string]int)
	for _, d := range docs {
		if d == nil {
			continue
		}
		for _, tr := range d.Tools {
			key := tr.Tool + "\x00" + tr.ToolUUID
			i, ok := toolIdx[key]
			if !ok {
				toolIdx[key] = len(out.Tools)
				tr.Filenames = slices.Clone(tr.Filenames)
				tr.Results = slices.Clone(tr.Results)
				out.Tools = append(out.Tools, tr)
				continue
			}
			merged := &out.Tools[i]
			merged.Filenames = unionSorted(merged.Filenames, tr.Filenames)
			merged.Results = append(merged.Results, tr.Results...)
		}
		for _, mr := range d.Metrics {
			i, ok := langIdx[mr.Language]
			if !ok {
				langIdx[mr.Language] = len(out.Metrics)
				mr.Metrics = slices.Clone(mr.Metrics)
				out.Metrics = append(out.Metrics, mr)
				continue
			}
			out.Metrics[i].Metrics = append(out.Metrics[i].Metrics, mr.Metrics...)
		}
	}
	return out
}

// Counts returns the number of tool results and metrics payloads.
func (d *Document) Counts() (toolResults, metrics int) {
	for _, tr := range d.Tools {
		toolResults += len(tr.Results)
	}
	for _, mr := range d.Metrics {
		metrics += len(mr.Metrics)
	}
	return toolResults, metrics
}

// withResultFiles returns filenames extended with every file referenced by
// rs, sorted and without duplicates.
func withResultFiles(filenames []string, rs []results.ToolResult) []string {
	extra := make([]string, 0, len(rs))
	for _, r := range rs {
		extra = append(extra, r.File())
	}
	return unionSorted(filenames, extra)
}

func unionSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	out = slices.DeleteFunc(out, func(s string) bool { return s == "" })
	slices.Sort(out)
	return slices.Compact(out)
}

// normalizePath turns a file reference into a slash-separated path relative
// to root where possible.
func normalizePath(ref, root string) string {
	if strings.HasPrefix(ref, "file://") {
		if u, err := url.Parse(ref); err == nil {
			ref = u.Path
		}
	}
	if root != "" && filepath.IsAbs(ref) {
		if rel, err := filepath.Rel(root, ref); err == nil && !strings.HasPrefix(rel, "..") {
			ref = rel
		}
	}
	ref = filepath.ToSlash(ref)
	return strings.TrimPrefix(ref, "./")
}

// parseLevel maps level spellings from the supported formats onto results.Level.
func parseLevel(s string) results.Level {
	switch strings.ToLower(s) {
	case "error", "err", "critical", "high":
		return results.LevelError
	case "warning", "warn", "medium":
		return results.LevelWarning
	case "", "info", "note", "none", "low":
		return results.LevelInfo
	default:
		return results.Level(s)
	}
}
