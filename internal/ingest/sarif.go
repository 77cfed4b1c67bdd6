// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/davetashner/resultpush/internal/results"
)

// SARIF document types, limited to the fields resultpush reads.

type sarifDocument struct {
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Results     []sarifResult     `json:"results"`
	Artifacts   []sarifArtifact   `json:"artifacts"`
	Invocations []sarifInvocation `json:"invocations"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	GUID  string      `json:"guid"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID            string                `json:"id"`
	DefaultConfig *sarifReportingConfig `json:"defaultConfiguration"`
	Properties    map[string]any        `json:"properties"`
}

type sarifReportingConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID     string          `json:"ruleId"`
	RuleIndex  *int            `json:"ruleIndex"`
	Level      string          `json:"level"`
	Message    sarifMessage    `json:"message"`
	Locations  []sarifLocation `json:"locations"`
	Properties map[string]any  `json:"properties"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

type sarifArtifact struct {
	Location sarifArtifactLocation `json:"location"`
}

type sarifInvocation struct {
	ToolExecutionNotifications []sarifNotification `json:"toolExecutionNotifications"`
}

type sarifNotification struct {
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

func readSARIF(data []byte, opts Options) (*Document, error) {
	var raw sarifDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding sarif: %w", err)
	}
	if raw.Version != "" && raw.Version != "2.1.0" {
		slog.Warn("unexpected SARIF version, reading anyway", "version", raw.Version)
	}

	doc := &Document{}
	for i, run := range raw.Runs {
		name := run.Tool.Driver.Name
		if name == "" {
			return nil, fmt.Errorf("runs[%d]: tool.driver.name is required", i)
		}
		doc.Tools = append(doc.Tools, convertRun(run, opts))
	}
	return doc, nil
}

// convertRun maps one SARIF run onto the results of one tool.
func convertRun(run sarifRun, opts Options) results.ToolResults {
	tr := results.ToolResults{Tool: run.Tool.Driver.Name, ToolUUID: run.Tool.Driver.GUID}

	rules := make(map[string]sarifRule, len(run.Tool.Driver.Rules))
	for _, rule := range run.Tool.Driver.Rules {
		rules[rule.ID] = rule
	}

	for _, a := range run.Artifacts {
		if a.Location.URI != "" {
			tr.Filenames = append(tr.Filenames, normalizePath(a.Location.URI, opts.Root))
		}
	}

	for _, r := range run.Results {
		if len(r.Locations) == 0 {
			slog.Debug("skipping SARIF result without location", "tool", tr.Tool, "rule", r.RuleID)
			continue
		}
		loc := r.Locations[0].PhysicalLocation
		rule := lookupRule(run.Tool.Driver.Rules, rules, r)
		issue := results.Issue{
			Filename:  normalizePath(loc.ArtifactLocation.URI, opts.Root),
			PatternID: r.RuleID,
			Message:   r.Message.Text,
			Level:     parseLevel(effectiveLevel(r, rule)),
			Category:  category(r, rule),
		}
		if issue.PatternID == "" {
			issue.PatternID = rule.ID
		}
		// A result without a region (or start line) applies to the whole
		// file and is reported on its first line.
		issue.Line = 1
		if loc.Region != nil && loc.Region.StartLine > 0 {
			issue.Line = loc.Region.StartLine
		}
		tr.Results = append(tr.Results, issue)
	}

	for _, inv := range run.Invocations {
		for _, n := range inv.ToolExecutionNotifications {
			if len(n.Locations) == 0 || n.Locations[0].PhysicalLocation.ArtifactLocation.URI == "" {
				continue
			}
			tr.Results = append(tr.Results, results.FileError{
				Filename: normalizePath(n.Locations[0].PhysicalLocation.ArtifactLocation.URI, opts.Root),
				Message:  n.Message.Text,
			})
		}
	}

	tr.Filenames = withResultFiles(tr.Filenames, tr.Results)
	return tr
}

// lookupRule finds the rule of a result by index, falling back to its id.
func lookupRule(ordered []sarifRule, byID map[string]sarifRule, r sarifResult) sarifRule {
	if r.RuleIndex != nil && *r.RuleIndex >= 0 && *r.RuleIndex < len(ordered) {
		return ordered[*r.RuleIndex]
	}
	return byID[r.RuleID]
}

// effectiveLevel applies SARIF's defaulting: the result level, else the
// rule's default configuration, else "warning".
func effectiveLevel(r sarifResult, rule sarifRule) string {
	if r.Level != "" {
		return r.Level
	}
	if rule.DefaultConfig != nil && rule.DefaultConfig.Level != "" {
		return rule.DefaultConfig.Level
	}
	return "warning"
}

func category(r sarifResult, rule sarifRule) string {
	for _, props := range []map[string]any{r.Properties, rule.Properties} {
		if c, ok := props["category"].(string); ok && c != "" {
			return c
		}
	}
	return ""
}
