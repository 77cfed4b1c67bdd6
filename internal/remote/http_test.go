// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/resultpush/internal/results"
)

// recordedRequest captures what the test server received.
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestNewClient_NilWithoutCredentials(t *testing.T) {
	assert.Nil(t, NewClient(nil))
	assert.Nil(t, NewClient(&Credentials{APIToken: "tok"}))
	assert.NotNil(t, NewClient(&Credentials{ProjectToken: "tok"}))
}

func TestSendRemoteResults_ProjectToken(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK, "")
	c := NewHTTPClient(Credentials{ProjectToken: "ptok"}, WithBaseURL(srv.URL+"/"))

	batch := []results.FileResults{{
		Filename: "main.go",
		Results: []results.ToolResult{
			results.Issue{Filename: "main.go", Line: 7, PatternID: "unused", Message: "unused var", Level: results.LevelWarning},
			results.FileError{Filename: "main.go", Message: "partial parse"},
		},
	}}
	require.NoError(t, c.SendRemoteResults(context.Background(), "golint", "abc123", batch))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/2.0/project/commit/abc123/issuesRemoteResults", got.Path)
	assert.Equal(t, "ptok", got.Header.Get("project-token"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))

	var body []struct {
		Tool   string `json:"tool"`
		Issues struct {
			Success struct {
				Results []struct {
					Filename string `json:"filename"`
					Results  []struct {
						Type      string `json:"type"`
						Line      int    `json:"line"`
						PatternID string `json:"patternId"`
						Message   string `json:"message"`
					} `json:"results"`
				} `json:"results"`
			} `json:"Success"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(got.Body, &body))
	require.Len(t, body, 1)
	assert.Equal(t, "golint", body[0].Tool)
	files := body[0].Issues.Success.Results
	require.Len(t, files, 1)
	require.Len(t, files[0].Results, 2)
	assert.Equal(t, "issue", files[0].Results[0].Type)
	assert.Equal(t, 7, files[0].Results[0].Line)
	assert.Equal(t, "fileError", files[0].Results[1].Type)
}

func TestSendRemoteMetrics_APIToken(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusNoContent, "")
	c := NewHTTPClient(Credentials{APIToken: "atok", Username: "acme", Project: "web app"}, WithBaseURL(srv.URL))

	loc := 120
	metrics := []results.MetricsResult{{Files: []results.FileMetrics{{Filename: "a.go", LOC: &loc}}}}
	require.NoError(t, c.SendRemoteMetrics(context.Background(), "Go", "c1", metrics))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, "/2.0/acme/web app/commit/c1/metricsRemoteResults", got.Path)
	assert.Equal(t, "atok", got.Header.Get("api-token"))
	assert.Contains(t, string(got.Body), `"language":"Go"`)
	assert.Contains(t, string(got.Body), `"loc":120`)
}

func TestGetRemoteConfiguration(t *testing.T) {
	response := `{
		"projectExtensions": [{"language": "Go", "extensions": [".gotmpl"]}],
		"ignoredPaths": ["vendor"],
		"toolConfiguration": [
			{"uuid": "golint", "isEnabled": true, "notEdited": false,
			 "patterns": [{"id": "unused", "parameters": [{"name": "depth", "value": "2"}]}]}
		]
	}`
	srv, reqs := newRecordingServer(t, http.StatusOK, response)
	c := NewHTTPClient(Credentials{ProjectToken: "ptok"}, WithBaseURL(srv.URL))

	cfg, err := c.GetRemoteConfiguration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, (*reqs)[0].Method)
	assert.Equal(t, "/2.0/project/analysis/configuration", (*reqs)[0].Path)

	assert.Equal(t, []string{"vendor"}, cfg.IgnoredPaths)
	assert.Equal(t, []string{"golint"}, cfg.ToolIDs())
	tool, ok := cfg.Tool("golint")
	require.True(t, ok)
	assert.True(t, tool.IsEnabled)
	assert.Contains(t, tool.PatternIDs(), "unused")
	assert.Equal(t, "2", tool.Patterns[0].Parameters[0].Value)

	_, ok = cfg.Tool("missing")
	assert.False(t, ok)
}

func TestSendEndOfResults(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK, "")
	c := NewHTTPClient(Credentials{ProjectToken: "ptok"}, WithBaseURL(srv.URL), WithUserAgent("resultpush/test"))

	require.NoError(t, c.SendEndOfResults(context.Background(), "deadbeef"))
	require.Len(t, *reqs, 1)
	assert.Equal(t, "/2.0/project/commit/deadbeef/resultsFinal", (*reqs)[0].Path)
	assert.Equal(t, "resultpush/test", (*reqs)[0].Header.Get("User-Agent"))
	assert.Empty(t, (*reqs)[0].Body)
}

func TestDo_ErrorStatus(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusUnauthorized, "invalid token\n")
	c := NewHTTPClient(Credentials{ProjectToken: "bad"}, WithBaseURL(srv.URL))

	err := c.SendEndOfResults(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending end of results")
	assert.Contains(t, err.Error(), "remote returned 401: invalid token")
}

func TestDo_BadJSON(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, "{not json")
	c := NewHTTPClient(Credentials{ProjectToken: "ptok"}, WithBaseURL(srv.URL))

	_, err := c.GetRemoteConfiguration(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestDo_ContextCanceled(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, "")
	c := NewHTTPClient(Credentials{ProjectToken: "ptok"}, WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.SendEndOfResults(ctx, "c1"))
}

func TestWithMaxInFlight_BoundsConcurrency(t *testing.T) {
	var current, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		current.Add(-1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(Credentials{ProjectToken: "ptok"}, WithBaseURL(srv.URL), WithMaxInFlight(2))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.SendEndOfResults(context.Background(), "c1"))
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestCredentialsFromEnv(t *testing.T) {
	env := func(m map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := m[k]
			return v, ok
		}
	}

	assert.Nil(t, CredentialsFromEnv(env(nil)))
	assert.Nil(t, CredentialsFromEnv(env(map[string]string{EnvAPIToken: "a", EnvUsername: "u"})))

	creds := CredentialsFromEnv(env(map[string]string{EnvProjectToken: "p"}))
	require.NotNil(t, creds)
	assert.Equal(t, "p", creds.ProjectToken)

	creds = CredentialsFromEnv(env(map[string]string{EnvAPIToken: "a", EnvUsername: "u", EnvProject: "p"}))
	require.NotNil(t, creds)
	name, value := creds.header()
	assert.Equal(t, "api-token", name)
	assert.Equal(t, "a", value)
	assert.Equal(t, "u/p", creds.scope())
}
