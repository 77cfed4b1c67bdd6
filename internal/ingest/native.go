// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/davetashner/resultpush/internal/results"
)

// Native document types, only used for decoding.

type nativeDocument struct {
	Tools   []nativeTool    `json:"tools"`
	Metrics []nativeMetrics `json:"metrics"`
}

type nativeTool struct {
	Tool    string         `json:"tool"`
	UUID    string         `json:"uuid"`
	Files   []string       `json:"files"`
	Results []nativeResult `json:"results"`
}

type nativeResult struct {
	Type      results.Kind `json:"type"`
	Filename  string       `json:"filename"`
	Line      int          `json:"line"`
	PatternID string       `json:"patternId"`
	Message   string       `json:"message"`
	Level     string       `json:"level"`
	Category  string       `json:"category"`
}

type nativeMetrics struct {
	Language string                  `json:"language"`
	Metrics  []results.MetricsResult `json:"metrics"`
}

func readNative(data []byte, opts Options) (*Document, error) {
	var raw nativeDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding results document: %w", err)
	}

	doc := &Document{}
	for ti, t := range raw.Tools {
		tr := results.ToolResults{Tool: t.Tool, ToolUUID: t.UUID}
		for _, f := range t.Files {
			tr.Filenames = append(tr.Filenames, normalizePath(f, opts.Root))
		}
		for ri, r := range t.Results {
			file := normalizePath(r.Filename, opts.Root)
			switch r.Type {
			case results.KindIssue, "":
				tr.Results = append(tr.Results, results.Issue{
					Filename:  file,
					Line:      r.Line,
					PatternID: r.PatternID,
					Message:   r.Message,
					Level:     parseLevel(r.Level),
					Category:  r.Category,
				})
			case results.KindFileError:
				tr.Results = append(tr.Results, results.FileError{Filename: file, Message: r.Message})
			default:
				return nil, fmt.Errorf("tools[%d].results[%d]: unknown result type %q (want %q or %q)",
					ti, ri, r.Type, results.KindIssue, results.KindFileError)
			}
		}
		tr.Filenames = withResultFiles(tr.Filenames, tr.Results)
		doc.Tools = append(doc.Tools, tr)
	}

	for _, m := range raw.Metrics {
		mr := results.MetricsResults{Language: m.Language}
		for _, res := range m.Metrics {
			for i := range res.Files {
				res.Files[i].Filename = normalizePath(res.Files[i].Filename, opts.Root)
			}
			mr.Metrics = append(mr.Metrics, res)
		}
		doc.Metrics = append(doc.Metrics, mr)
	}
	return doc, nil
}
