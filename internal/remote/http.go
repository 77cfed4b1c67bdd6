// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/davetashner/resultpush/internal/results"
)

// maxErrorBody caps how much of an error response is quoted in errors.
const maxErrorBody = 512

// HTTPClient talks to the aggregation service over HTTPS.
type HTTPClient struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	userAgent  string
	inFlight   *semaphore.Weighted
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL overrides DefaultBaseURL. Empty values are ignored.
func WithBaseURL(base string) Option {
	return func(c *HTTPClient) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) { c.userAgent = ua }
}

// WithMaxInFlight bounds the number of concurrent requests. Zero or negative
// means unbounded.
func WithMaxInFlight(n int) Option {
	return func(c *HTTPClient) {
		if n > 0 {
			c.inFlight = semaphore.NewWeighted(int64(n))
		} else {
			c.inFlight = nil
		}
	}
}

// NewClient returns a Client for creds, or nil when creds are missing or
// incomplete. The nil result is what callers pass on to upload.New to signal
// that no credentials were found.
func NewClient(creds *Credentials, opts ...Option) Client {
	if !creds.Valid() {
		return nil
	}
	return NewHTTPClient(*creds, opts...)
}

// NewHTTPClient creates an HTTPClient for the given credentials.
func NewHTTPClient(creds Credentials, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    DefaultBaseURL,
		creds:      creds,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		userAgent:  "resultpush",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types. The remote expects each payload wrapped in a Success envelope.

type wireResult struct {
	Type      results.Kind  `json:"type"`
	Filename  string        `json:"filename"`
	Line      int           `json:"line,omitempty"`
	PatternID string        `json:"patternId,omitempty"`
	Message   string        `json:"message"`
	Level     results.Level `json:"level,omitempty"`
	Category  string        `json:"category,omitempty"`
}

type wireFileResults struct {
	Filename string       `json:"filename"`
	Results  []wireResult `json:"results"`
}

type wireSuccess[T any] struct {
	Success struct {
		Results []T `json:"results"`
	} `json:"Success"`
}

type wireToolIssues struct {
	Tool   string                       `json:"tool"`
	Issues wireSuccess[wireFileResults] `json:"issues"`
}

type wireLanguageMetrics struct {
	Language string                             `json:"language"`
	Metrics  wireSuccess[results.MetricsResult] `json:"metrics"`
}

func toWire(batch []results.FileResults) []wireFileResults {
	out := make([]wireFileResults, 0, len(batch))
	for _, fr := range batch {
		wf := wireFileResults{Filename: fr.Filename, Results: make([]wireResult, 0, len(fr.Results))}
		for _, r := range fr.Results {
			switch v := r.(type) {
			case results.Issue:
				wf.Results = append(wf.Results, wireResult{
					Type:      results.KindIssue,
					Filename:  v.Filename,
					Line:      v.Line,
					PatternID: v.PatternID,
					Message:   v.Message,
					Level:     v.Level,
					Category:  v.Category,
				})
			case results.FileError:
				wf.Results = append(wf.Results, wireResult{
					Type:     results.KindFileError,
					Filename: v.Filename,
					Message:  v.Message,
				})
			}
		}
		out = append(out, wf)
	}
	return out
}

// SendRemoteResults posts one batch of a tool's results.
func (c *HTTPClient) SendRemoteResults(ctx context.Context, tool, commitUUID string, batch []results.FileResults) error {
	body := []wireToolIssues{{Tool: tool}}
	body[0].Issues.Success.Results = toWire(batch)
	path := c.commitPath(commitUUID, "issuesRemoteResults")
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("sending results for tool %s: %w", tool, err)
	}
	return nil
}

// SendRemoteMetrics posts a language's metrics.
func (c *HTTPClient) SendRemoteMetrics(ctx context.Context, language, commitUUID string, metrics []results.MetricsResult) error {
	body := []wireLanguageMetrics{{Language: language}}
	body[0].Metrics.Success.Results = metrics
	path := c.commitPath(commitUUID, "metricsRemoteResults")
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("sending metrics for language %s: %w", language, err)
	}
	return nil
}

// GetRemoteConfiguration fetches the project configuration.
func (c *HTTPClient) GetRemoteConfiguration(ctx context.Context) (*ProjectConfiguration, error) {
	var cfg ProjectConfiguration
	path := fmt.Sprintf("/2.0/%s/analysis/configuration", c.creds.scope())
	if err := c.do(ctx, http.MethodGet, path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("fetching remote configuration: %w", err)
	}
	return &cfg, nil
}

// SendEndOfResults marks the commit's upload as complete.
func (c *HTTPClient) SendEndOfResults(ctx context.Context, commitUUID string) error {
	if err := c.do(ctx, http.MethodPost, c.commitPath(commitUUID, "resultsFinal"), nil, nil); err != nil {
		return fmt.Errorf("sending end of results: %w", err)
	}
	return nil
}

func (c *HTTPClient) commitPath(commitUUID, op string) string {
	return fmt.Sprintf("/2.0/%s/commit/%s/%s", c.creds.scope(), url.PathEscape(commitUUID), op)
}

// do issues a request with an optional JSON body and decodes a JSON response
// into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	if c.inFlight != nil {
		if err := c.inFlight.Acquire(ctx, 1); err != nil {
			return err
		}
		defer c.inFlight.Release(1)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	name, value := c.creds.header()
	req.Header.Set(name, value)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("remote request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("remote returned %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
