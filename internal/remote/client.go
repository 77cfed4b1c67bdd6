// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package remote defines the contract with the aggregation service that
// receives analysis results, and an HTTP implementation of it.
package remote

import (
	"context"

	"github.com/davetashner/resultpush/internal/results"
)

// Client is the remote aggregation service as seen by the uploader.
type Client interface {
	// SendRemoteResults uploads one batch of a tool's results for a commit.
	SendRemoteResults(ctx context.Context, tool, commitUUID string, batch []results.FileResults) error

	// SendRemoteMetrics uploads a language's metrics for a commit.
	SendRemoteMetrics(ctx context.Context, language, commitUUID string, metrics []results.MetricsResult) error

	// GetRemoteConfiguration fetches the project's remote configuration.
	GetRemoteConfiguration(ctx context.Context) (*ProjectConfiguration, error)

	// SendEndOfResults tells the service no more data will arrive for the commit.
	SendEndOfResults(ctx context.Context, commitUUID string) error
}

// ProjectConfiguration is the enablement state of a project on the remote side.
type ProjectConfiguration struct {
	Extensions   []LanguageExtensions `json:"projectExtensions"`
	IgnoredPaths []string             `json:"ignoredPaths,omitempty"`
	Tools        []ToolConfiguration  `json:"toolConfiguration"`
}

// LanguageExtensions lists extra file extensions mapped to a language.
type LanguageExtensions struct {
	Language   string   `json:"language"`
	Extensions []string `json:"extensions"`
}

// ToolConfiguration is the remote state of one tool.
type ToolConfiguration struct {
	ToolUUID  string        `json:"uuid"`
	IsEnabled bool          `json:"isEnabled"`
	NotEdited bool          `json:"notEdited"`
	Patterns  []ToolPattern `json:"patterns"`
}

// ToolPattern is an enabled pattern of a tool.
type ToolPattern struct {
	ID         string      `json:"id"`
	Parameters []Parameter `json:"parameters,omitempty"`
}

// Parameter is a configured pattern parameter.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ToolIDs returns the ids of every tool known to the configuration.
func (c *ProjectConfiguration) ToolIDs() []string {
	ids := make([]string, 0, len(c.Tools))
	for _, t := range c.Tools {
		ids = append(ids, t.ToolUUID)
	}
	return ids
}

// Tool returns the configuration whose ToolUUID equals id.
func (c *ProjectConfiguration) Tool(id string) (ToolConfiguration, bool) {
	for _, t := range c.Tools {
		if t.ToolUUID == id {
			return t, true
		}
	}
	return ToolConfiguration{}, false
}

// PatternIDs returns the set of pattern ids enabled for the tool.
func (t ToolConfiguration) PatternIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(t.Patterns))
	for _, p := range t.Patterns {
		ids[p.ID] = struct{}{}
	}
	return ids
}
