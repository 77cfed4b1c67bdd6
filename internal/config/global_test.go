// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfigDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "resultpush"), GlobalConfigDir())
}

func TestGlobalConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/resultpush", GlobalConfigDir())
	assert.Equal(t, "/custom/config/resultpush/config.yaml", GlobalConfigPath())
}

func TestLoadGlobal_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadGlobal_Valid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "resultpush")
	require.NoError(t, os.MkdirAll(cfgDir, 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfgDir, "config.yaml"),
		[]byte("api_base_url: https://self-hosted.example\ngithub_status: false\n"),
		0o600,
	))

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, "https://self-hosted.example", cfg.APIBaseURL)
	require.NotNil(t, cfg.GitHubStatus)
	assert.False(t, *cfg.GitHubStatus)
}

func TestLoadGlobal_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "resultpush")
	require.NoError(t, os.MkdirAll(cfgDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("{{invalid yaml"), 0o600))

	_, err := LoadGlobal()
	assert.Error(t, err)
}
