// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package report renders the outcome of an upload session for people and
// for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/davetashner/resultpush/internal/upload"
)

// Summary is an upload session aggregated per tool and per language.
type Summary struct {
	Session      string           `json:"session"`
	Commit       string           `json:"commit"`
	Duration     string           `json:"duration"`
	Status       string           `json:"status"`
	ConfigError  string           `json:"config_error,omitempty"`
	Tools        []ToolSummary    `json:"tools"`
	Metrics      []MetricsSummary `json:"metrics"`
	SkippedTools []string         `json:"skipped_tools,omitempty"`
	EndOfResults CallSummary      `json:"end_of_results"`
}

// ToolSummary aggregates the results calls of one tool.
type ToolSummary struct {
	Tool    string   `json:"tool"`
	Batches int      `json:"batches"`
	Failed  int      `json:"failed"`
	Results int      `json:"results"`
	Status  string   `json:"status"`
	Errors  []string `json:"errors,omitempty"`
}

// MetricsSummary is the metrics call of one language.
type MetricsSummary struct {
	Language string `json:"language"`
	Payloads int    `json:"payloads"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// CallSummary is the outcome of a single call.
type CallSummary struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Summarize aggregates r. Tools and languages keep dispatch order.
func Summarize(r *upload.Report) Summary {
	s := Summary{
		Session:      r.Session,
		Commit:       r.CommitUUID,
		Duration:     r.Duration.Round(time.Millisecond).String(),
		SkippedTools: r.SkippedTools,
		Tools:        []ToolSummary{},
		Metrics:      []MetricsSummary{},
	}
	if r.ConfigErr != nil {
		s.ConfigError = r.ConfigErr.Error()
	}

	toolIdx := make(map[string]int)
	for _, c := range r.Calls {
		switch c.Kind {
		case upload.CallResults:
			i, ok := toolIdx[c.Target]
			if !ok {
				i = len(s.Tools)
				toolIdx[c.Target] = i
				s.Tools = append(s.Tools, ToolSummary{Tool: c.Target})
			}
			ts := &s.Tools[i]
			ts.Batches++
			ts.Results += c.Items
			if c.Err != nil {
				ts.Failed++
				ts.Errors = append(ts.Errors, fmt.Sprintf("batch %d/%d: %v", c.Batch, c.Batches, c.Err))
			}
		case upload.CallMetrics:
			ms := MetricsSummary{Language: c.Target, Payloads: c.Items, Status: StatusOK}
			if c.Err != nil {
				ms.Status, ms.Error = StatusFailed, c.Err.Error()
			}
			s.Metrics = append(s.Metrics, ms)
		case upload.CallEndOfResults:
			s.EndOfResults = CallSummary{Status: StatusOK}
			if c.Err != nil {
				s.EndOfResults = CallSummary{Status: StatusFailed, Error: c.Err.Error()}
			}
		}
	}

	for i := range s.Tools {
		ts := &s.Tools[i]
		switch {
		case ts.Failed == 0:
			ts.Status = StatusOK
		case ts.Failed == ts.Batches:
			ts.Status = StatusFailed
		default:
			ts.Status = StatusPartial
		}
	}

	s.Status = StatusOK
	if r.Err() != nil {
		s.Status = StatusFailed
	}
	return s
}

// Render writes a human readable summary of r to w.
func Render(w io.Writer, r *upload.Report) error {
	s := Summarize(r)
	p := &printer{w: w}

	p.printf("%s %s (session %s) in %s: %s\n\n",
		SectionTitle("Upload for commit"), shortCommit(s.Commit), s.Session, s.Duration, ColorStatus(s.Status))

	if s.ConfigError != "" {
		p.printf("  %s remote configuration: %s\n", ColorStatus(StatusFailed), s.ConfigError)
		p.printf("  No results were sent.\n\n")
	}

	if len(s.Tools) > 0 {
		tbl := NewTable(
			Column{Header: "Tool"},
			Column{Header: "Batches", Align: AlignRight},
			Column{Header: "Results", Align: AlignRight},
			Column{Header: "Status", Color: ColorStatus},
		)
		for _, ts := range s.Tools {
			tbl.AddRow(ts.Tool, strconv.Itoa(ts.Batches), strconv.Itoa(ts.Results), ts.Status)
		}
		p.table(tbl)
		for _, ts := range s.Tools {
			for _, e := range ts.Errors {
				p.printf("  %s %s\n", ts.Tool, e)
			}
		}
		p.printf("\n")
	}

	if len(s.Metrics) > 0 {
		tbl := NewTable(
			Column{Header: "Language"},
			Column{Header: "Payloads", Align: AlignRight},
			Column{Header: "Status", Color: ColorStatus},
		)
		for _, ms := range s.Metrics {
			tbl.AddRow(ms.Language, strconv.Itoa(ms.Payloads), ms.Status)
		}
		p.table(tbl)
		for _, ms := range s.Metrics {
			if ms.Error != "" {
				p.printf("  %s: %s\n", ms.Language, ms.Error)
			}
		}
		p.printf("\n")
	}

	for _, tool := range s.SkippedTools {
		p.printf("  %s %s (not enabled for this project)\n", ColorStatus(StatusSkipped), tool)
	}

	p.printf("  End of results: %s", ColorStatus(s.EndOfResults.Status))
	if s.EndOfResults.Error != "" {
		p.printf(" (%s)", s.EndOfResults.Error)
	}
	p.printf("\n")
	return p.err
}

// RenderJSON writes the summary of r as indented JSON.
func RenderJSON(w io.Writer, r *upload.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Summarize(r)); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	return nil
}

// printer remembers the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		p.err = fmt.Errorf("render summary: %w", err)
	}
}

func (p *printer) table(t *Table) {
	if p.err != nil {
		return
	}
	p.err = t.Render(p.w)
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
