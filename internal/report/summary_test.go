// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/resultpush/internal/upload"
)

func sampleReport() *upload.Report {
	return &upload.Report{
		Session:      "6f1c2b8e-2d0a-4a0e-9a51-0c1b2d3e4f50",
		CommitUUID:   "8f2d3c1a9b7e6f5d4c3b2a1908f7e6d5c4b3a291",
		SkippedTools: []string{"pylint"},
		Duration:     1234567 * time.Microsecond,
		Calls: []upload.Call{
			{Kind: upload.CallResults, Target: "eslint", Batch: 1, Batches: 2, Items: 50},
			{Kind: upload.CallResults, Target: "eslint", Batch: 2, Batches: 2, Items: 11, Err: errors.New("remote returned 502")},
			{Kind: upload.CallResults, Target: "gosec", Batch: 1, Batches: 1, Items: 3},
			{Kind: upload.CallMetrics, Target: "Go", Items: 4},
			{Kind: upload.CallEndOfResults, Target: "8f2d3c1a9b7e6f5d4c3b2a1908f7e6d5c4b3a291"},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleReport())

	assert.Equal(t, "1.235s", s.Duration)
	assert.Equal(t, StatusFailed, s.Status)
	require.Len(t, s.Tools, 2)
	assert.Equal(t, ToolSummary{
		Tool: "eslint", Batches: 2, Failed: 1, Results: 61, Status: StatusPartial,
		Errors: []string{"batch 2/2: remote returned 502"},
	}, s.Tools[0])
	assert.Equal(t, ToolSummary{Tool: "gosec", Batches: 1, Results: 3, Status: StatusOK}, s.Tools[1])
	assert.Equal(t, []MetricsSummary{{Language: "Go", Payloads: 4, Status: StatusOK}}, s.Metrics)
	assert.Equal(t, CallSummary{Status: StatusOK}, s.EndOfResults)
	assert.Equal(t, []string{"pylint"}, s.SkippedTools)
}

func TestSummarize_ConfigError(t *testing.T) {
	r := &upload.Report{
		ConfigErr: errors.New("resolving remote configuration: timeout"),
		Calls:     []upload.Call{{Kind: upload.CallEndOfResults, Err: errors.New("gone")}},
	}
	s := Summarize(r)
	assert.Equal(t, StatusFailed, s.Status)
	assert.Equal(t, "resolving remote configuration: timeout", s.ConfigError)
	assert.Empty(t, s.Tools)
	assert.Equal(t, CallSummary{Status: StatusFailed, Error: "gone"}, s.EndOfResults)
}

func TestSummarize_AllBatchesFailed(t *testing.T) {
	boom := errors.New("boom")
	r := &upload.Report{Calls: []upload.Call{
		{Kind: upload.CallResults, Target: "eslint", Batch: 1, Batches: 2, Err: boom},
		{Kind: upload.CallResults, Target: "eslint", Batch: 2, Batches: 2, Err: boom},
		{Kind: upload.CallEndOfResults},
	}}
	assert.Equal(t, StatusFailed, Summarize(r).Tools[0].Status)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Upload for commit 8f2d3c1a9b7e (session 6f1c2b8e-2d0a-4a0e-9a51-0c1b2d3e4f50) in 1.235s: FAILED")
	assert.Contains(t, out, "  eslint        2       61  PARTIAL")
	assert.Contains(t, out, "  gosec         1        3  ok")
	assert.Contains(t, out, "eslint batch 2/2: remote returned 502")
	assert.Contains(t, out, "  Go               4  ok")
	assert.Contains(t, out, "skipped pylint (not enabled for this project)")
	assert.Contains(t, out, "End of results: ok\n")
}

func TestRender_ConfigError(t *testing.T) {
	var buf bytes.Buffer
	r := &upload.Report{
		ConfigErr: errors.New("remote returned 401"),
		Calls:     []upload.Call{{Kind: upload.CallEndOfResults}},
	}
	require.NoError(t, Render(&buf, r))
	assert.Contains(t, buf.String(), "FAILED remote configuration: remote returned 401")
	assert.Contains(t, buf.String(), "No results were sent.")
	assert.NotContains(t, buf.String(), "Tool")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, sampleReport()))

	var got Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, Summarize(sampleReport()), got)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestRender_WriteError(t *testing.T) {
	err := Render(failWriter{}, sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed pipe")
}
