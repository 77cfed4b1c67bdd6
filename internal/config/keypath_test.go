// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValue(t *testing.T) {
	cfg := &Config{Format: "json", BatchSize: 42, GitHubStatus: boolPtr(true), Results: []string{"a"}}

	val, err := GetValue(cfg, "format")
	require.NoError(t, err)
	assert.Equal(t, "json", val)

	val, err = GetValue(cfg, "batch_size")
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	val, err = GetValue(cfg, "github_status")
	require.NoError(t, err)
	assert.Equal(t, true, val)

	val, err = GetValue(cfg, "results")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, val)
}

func TestGetValue_NotSet(t *testing.T) {
	_, err := GetValue(&Config{}, "format")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestSetValue(t *testing.T) {
	data := map[string]any{}
	require.NoError(t, SetValue(data, "github_status", "true"))
	require.NoError(t, SetValue(data, "max_in_flight", "4"))
	require.NoError(t, SetValue(data, "timeout", "5m"))
	require.NoError(t, SetValue(data, "metrics", "a.json,,b.json"))

	assert.Equal(t, true, data["github_status"])
	assert.Equal(t, 4, data["max_in_flight"])
	assert.Equal(t, "5m", data["timeout"])
	assert.Equal(t, []any{"a.json", "b.json"}, data["metrics"])

	cfg, err := FromRaw(data)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxInFlight)
	assert.Equal(t, []string{"a.json", "b.json"}, cfg.Metrics)
}

func TestSetValue_UnknownKey(t *testing.T) {
	err := SetValue(map[string]any{}, "no_llm", "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown key "no_llm"`)
	assert.Contains(t, err.Error(), "api_base_url, batch_size")
}

func TestValidateKey_Empty(t *testing.T) {
	assert.Error(t, ValidateKey(""))
}

func TestFlatten(t *testing.T) {
	m, err := Flatten(&Config{Project: "web", Username: "acme"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"project": "web", "username": "acme"}, m)
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, true, coerceValue("true"))
	assert.Equal(t, "True", coerceValue("True"))
	assert.Equal(t, 7, coerceValue("7"))
	assert.Equal(t, "1.5", coerceValue("1.5"))
	assert.Equal(t, "https://x", coerceValue("https://x"))
}
