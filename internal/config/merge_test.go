// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestMerge_CLIOverridesFile(t *testing.T) {
	fileCfg := &Config{
		APIBaseURL: "https://file.example",
		BatchSize:  100,
		Timeout:    "1m",
	}
	cli := Settings{
		APIBaseURL: "https://cli.example",
		BatchSize:  10,
		Timeout:    30 * time.Second,
	}

	got, err := Merge(fileCfg, cli)
	require.NoError(t, err)
	assert.Equal(t, "https://cli.example", got.APIBaseURL)
	assert.Equal(t, 10, got.BatchSize)
	assert.Equal(t, 30*time.Second, got.Timeout)
}

func TestMerge_FileFillsInDefaults(t *testing.T) {
	fileCfg := &Config{
		Format:       "sarif",
		MaxInFlight:  8,
		Timeout:      "90s",
		GitHubStatus: boolPtr(true),
		Results:      []string{"a.sarif"},
		Metrics:      []string{"m.json"},
		Username:     "acme",
		Project:      "web",
	}

	got, err := Merge(fileCfg, Settings{})
	require.NoError(t, err)
	assert.Equal(t, "sarif", got.Format)
	assert.Equal(t, 8, got.MaxInFlight)
	assert.Equal(t, 90*time.Second, got.Timeout)
	assert.True(t, got.GitHubStatus)
	assert.Equal(t, []string{"a.sarif"}, got.Results)
	assert.Equal(t, []string{"m.json"}, got.Metrics)
	assert.Equal(t, "acme", got.Username)
	assert.Equal(t, "web", got.Project)
}

func TestMerge_DefaultTimeout(t *testing.T) {
	got, err := Merge(nil, Settings{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, got.Timeout)
}

func TestMerge_BadTimeout(t *testing.T) {
	_, err := Merge(&Config{Timeout: "soon"}, Settings{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestOverlay_LaterLayersWin(t *testing.T) {
	global := &Config{APIBaseURL: "https://global.example", BatchSize: 10, GitHubStatus: boolPtr(true)}
	repo := &Config{BatchSize: 20, Results: []string{"r.sarif"}}
	env := &Config{APIBaseURL: "https://env.example", GitHubStatus: boolPtr(false)}

	got := Overlay(global, nil, repo, env)
	assert.Equal(t, "https://env.example", got.APIBaseURL)
	assert.Equal(t, 20, got.BatchSize)
	assert.Equal(t, []string{"r.sarif"}, got.Results)
	require.NotNil(t, got.GitHubStatus)
	assert.False(t, *got.GitHubStatus)
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIBaseURL:   "https://env.example",
		EnvUsername:     "acme",
		EnvProject:      "web",
		EnvBatchSize:    "42",
		EnvMaxInFlight:  "3",
		EnvTimeout:      "2m",
		EnvGitHubStatus: "true",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg, err := FromEnv(lookup)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		APIBaseURL:   "https://env.example",
		Username:     "acme",
		Project:      "web",
		BatchSize:    42,
		MaxInFlight:  3,
		Timeout:      "2m",
		GitHubStatus: boolPtr(true),
	}, cfg)
}

func TestFromEnv_Malformed(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{EnvBatchSize, "many"},
		{EnvMaxInFlight, "1.5"},
		{EnvGitHubStatus, "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == tt.key {
					return tt.val, true
				}
				return "", false
			}
			_, err := FromEnv(lookup)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestFromEnv_Empty(t *testing.T) {
	cfg, err := FromEnv(func(string) (string, bool) { return "", false })
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}
