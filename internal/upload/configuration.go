// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/davetashner/resultpush/internal/remote"
	"github.com/davetashner/resultpush/internal/results"
)

// resolveConfiguration fetches the remote project configuration. It is called
// once per SendResults and the result is shared read-only by every dispatch.
func resolveConfiguration(ctx context.Context, client remote.Client) (*remote.ProjectConfiguration, error) {
	cfg, err := client.GetRemoteConfiguration(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving remote configuration: %w", err)
	}
	if cfg == nil {
		return nil, errors.New("remote configuration is empty")
	}
	return cfg, nil
}

// Filter returns the part of tr the remote configuration accepts.
//
// A tool is matched by ToolUUID, or by name when the tool carries no UUID.
// Unmatched or disabled tools yield ok == false. Results and filenames under
// an ignored path are dropped. Unless the tool configuration is NotEdited,
// issues whose pattern is not enabled are dropped; file errors always pass.
func Filter(cfg *remote.ProjectConfiguration, tr results.ToolResults) (filtered results.ToolResults, ok bool) {
	id := tr.ToolUUID
	if id == "" {
		id = tr.Tool
	}
	toolCfg, found := cfg.Tool(id)
	if !found || !toolCfg.IsEnabled {
		return results.ToolResults{}, false
	}

	var patterns map[string]struct{}
	if !toolCfg.NotEdited {
		patterns = toolCfg.PatternIDs()
	}

	filtered = results.ToolResults{Tool: tr.Tool, ToolUUID: tr.ToolUUID}
	for _, name := range tr.Filenames {
		if !ignored(cfg.IgnoredPaths, name) {
			filtered.Filenames = append(filtered.Filenames, name)
		}
	}
	for _, r := range tr.Results {
		if ignored(cfg.IgnoredPaths, r.File()) {
			continue
		}
		if issue, isIssue := r.(results.Issue); isIssue && patterns != nil {
			if _, enabled := patterns[issue.PatternID]; !enabled {
				continue
			}
		}
		filtered.Results = append(filtered.Results, r)
	}
	return filtered, true
}

// ignored reports whether file equals one of the ignored paths or lies under
// one of them.
func ignored(paths []string, file string) bool {
	file = path.Clean(strings.TrimPrefix(file, "./"))
	for _, p := range paths {
		p = path.Clean(strings.TrimPrefix(p, "./"))
		if p == "." || p == "" {
			continue
		}
		if file == p || strings.HasPrefix(file, p+"/") {
			return true
		}
	}
	return false
}
