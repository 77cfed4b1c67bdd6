// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package upload

import (
	"context"
	"sync"

	"github.com/davetashner/resultpush/internal/remote"
	"github.com/davetashner/resultpush/internal/results"
)

// resultsCall records one SendRemoteResults invocation.
type resultsCall struct {
	Tool   string
	Commit string
	Batch  []results.FileResults
}

// metricsCall records one SendRemoteMetrics invocation.
type metricsCall struct {
	Language string
	Commit   string
	Metrics  []results.MetricsResult
}

// mockClient implements remote.Client for testing. It is safe for concurrent
// use.
type mockClient struct {
	mu sync.Mutex

	config    *remote.ProjectConfiguration
	configErr error

	// resultsErr maps a tool name to the error its batches return.
	resultsErr map[string]error
	// metricsErr maps a language to the error its metrics call returns.
	metricsErr map[string]error
	endErr     error

	// onResults, if set, runs inside SendRemoteResults before recording.
	onResults func(tool string)

	configCalls  int
	resultsCalls []resultsCall
	metricsCalls []metricsCall
	endCalls     []string

	// finishedBeforeEnd counts results/metrics calls that had returned when
	// SendEndOfResults was invoked.
	finished          int
	finishedBeforeEnd int
}

var _ remote.Client = (*mockClient)(nil)

func (m *mockClient) SendRemoteResults(_ context.Context, tool, commitUUID string, batch []results.FileResults) error {
	if m.onResults != nil {
		m.onResults(tool)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsCalls = append(m.resultsCalls, resultsCall{Tool: tool, Commit: commitUUID, Batch: batch})
	m.finished++
	return m.resultsErr[tool]
}

func (m *mockClient) SendRemoteMetrics(_ context.Context, language, commitUUID string, metrics []results.MetricsResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metricsCalls = append(m.metricsCalls, metricsCall{Language: language, Commit: commitUUID, Metrics: metrics})
	m.finished++
	return m.metricsErr[language]
}

func (m *mockClient) GetRemoteConfiguration(_ context.Context) (*remote.ProjectConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configCalls++
	return m.config, m.configErr
}

func (m *mockClient) SendEndOfResults(_ context.Context, commitUUID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endCalls = append(m.endCalls, commitUUID)
	m.finishedBeforeEnd = m.finished
	return m.endErr
}

// resultsCallsFor returns how many result batches were sent for tool.
func (m *mockClient) resultsCallsFor(tool string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.resultsCalls {
		if c.Tool == tool {
			n++
		}
	}
	return n
}

// enabledConfig returns a configuration enabling the given tools with their
// default patterns.
func enabledConfig(tools ...string) *remote.ProjectConfiguration {
	cfg := &remote.ProjectConfiguration{}
	for _, t := range tools {
		cfg.Tools = append(cfg.Tools, remote.ToolConfiguration{ToolUUID: t, IsEnabled: true, NotEdited: true})
	}
	return cfg
}
