// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Empty(t, cfg.APIBaseURL)
	assert.Nil(t, cfg.GitHubStatus)
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	content := `
api_base_url: https://results.example.com
format: sarif
batch_size: 500
max_in_flight: 4
timeout: 5m
github_status: true
results:
  - out/eslint.sarif
  - out/gosec.sarif
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://results.example.com", cfg.APIBaseURL)
	assert.Equal(t, "sarif", cfg.Format)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, 4, cfg.MaxInFlight)
	assert.Equal(t, "5m", cfg.Timeout)
	require.NotNil(t, cfg.GitHubStatus)
	assert.True(t, *cfg.GitHubStatus)
	assert.Equal(t, []string{"out/eslint.sarif", "out/gosec.sarif"}, cfg.Results)
}

func TestLoad_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	content := `
username = "acme"
project = "web"
batch_size = 100
metrics = ["out/metrics.json"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Username)
	assert.Equal(t, "web", cfg.Project)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, []string{"out/metrics.json"}, cfg.Metrics)
}

func TestLoad_TOMLUnknownKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte("batchsize = 3\n"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batchsize")
}

func TestLoad_BothFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("format: json\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte("format = \"json\"\n"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keep one")
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{{invalid yaml"), 0o600))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(""), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Empty(t, cfg.Format)
}

func TestLoad_PermissionError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("format: json"), 0o600))

	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() {
		_ = os.Chmod(path, 0o600) // restore for cleanup
	})

	cfg, err := Load(dir)
	assert.Error(t, err, "should fail when file is unreadable")
	assert.Nil(t, cfg)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &Config{Format: "sarif", BatchSize: 10}))
	assert.Equal(t, "format: sarif\nbatch_size: 10\n", buf.String())
}

func TestRawRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			data, err := LoadRaw(path)
			require.NoError(t, err)
			assert.Empty(t, data)

			require.NoError(t, SetValue(data, "batch_size", "250"))
			require.NoError(t, SetValue(data, "results", "a.sarif, b.sarif"))
			require.NoError(t, WriteFile(path, data))

			cfg, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, 250, cfg.BatchSize)
			assert.Equal(t, []string{"a.sarif", "b.sarif"}, cfg.Results)
		})
	}
}
