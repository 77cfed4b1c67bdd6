// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment variables that override config file values.
const (
	EnvAPIBaseURL   = "RESULTPUSH_API_BASE_URL"
	EnvUsername     = "RESULTPUSH_USERNAME"
	EnvProject      = "RESULTPUSH_PROJECT"
	EnvBatchSize    = "RESULTPUSH_BATCH_SIZE"
	EnvMaxInFlight  = "RESULTPUSH_MAX_IN_FLIGHT"
	EnvTimeout      = "RESULTPUSH_TIMEOUT"
	EnvGitHubStatus = "RESULTPUSH_GITHUB_STATUS"
)

// FromEnv builds a Config layer from environment variables, read through
// lookup (usually os.LookupEnv). Malformed numbers are reported as errors.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	if v, ok := lookup(EnvAPIBaseURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(EnvUsername); ok {
		cfg.Username = v
	}
	if v, ok := lookup(EnvProject); ok {
		cfg.Project = v
	}
	if v, ok := lookup(EnvTimeout); ok {
		cfg.Timeout = v
	}
	if v, ok := lookup(EnvBatchSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvBatchSize, err)
		}
		cfg.BatchSize = n
	}
	if v, ok := lookup(EnvMaxInFlight); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvMaxInFlight, err)
		}
		cfg.MaxInFlight = n
	}
	if v, ok := lookup(EnvGitHubStatus); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvGitHubStatus, err)
		}
		cfg.GitHubStatus = &b
	}
	return cfg, nil
}

// Overlay combines config layers. Later layers win; only non-zero values
// override earlier ones. Nil layers are skipped.
func Overlay(layers ...*Config) *Config {
	merged := &Config{}
	for _, l := range layers {
		if l == nil {
			continue
		}
		if l.APIBaseURL != "" {
			merged.APIBaseURL = l.APIBaseURL
		}
		if l.Username != "" {
			merged.Username = l.Username
		}
		if l.Project != "" {
			merged.Project = l.Project
		}
		if l.Format != "" {
			merged.Format = l.Format
		}
		if l.BatchSize != 0 {
			merged.BatchSize = l.BatchSize
		}
		if l.MaxInFlight != 0 {
			merged.MaxInFlight = l.MaxInFlight
		}
		if l.Timeout != "" {
			merged.Timeout = l.Timeout
		}
		if l.GitHubStatus != nil {
			merged.GitHubStatus = l.GitHubStatus
		}
		if len(l.Results) > 0 {
			merged.Results = l.Results
		}
		if len(l.Metrics) > 0 {
			merged.Metrics = l.Metrics
		}
	}
	return merged
}

// Merge combines file-based config with CLI-provided settings.
// CLI values take precedence; zero-value CLI fields fall through to file config.
// A timeout left unset everywhere becomes DefaultTimeout.
func Merge(fileCfg *Config, cli Settings) (Settings, error) {
	result := cli
	if fileCfg == nil {
		fileCfg = &Config{}
	}

	if result.APIBaseURL == "" {
		result.APIBaseURL = fileCfg.APIBaseURL
	}
	if result.Username == "" {
		result.Username = fileCfg.Username
	}
	if result.Project == "" {
		result.Project = fileCfg.Project
	}
	if result.Format == "" {
		result.Format = fileCfg.Format
	}
	if result.BatchSize == 0 {
		result.BatchSize = fileCfg.BatchSize
	}
	if result.MaxInFlight == 0 {
		result.MaxInFlight = fileCfg.MaxInFlight
	}

	// GitHubStatus: CLI wins if true, otherwise file config.
	if !result.GitHubStatus && fileCfg.GitHubStatus != nil {
		result.GitHubStatus = *fileCfg.GitHubStatus
	}

	if len(result.Results) == 0 {
		result.Results = fileCfg.Results
	}
	if len(result.Metrics) == 0 {
		result.Metrics = fileCfg.Metrics
	}

	if result.Timeout == 0 && fileCfg.Timeout != "" {
		d, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return Settings{}, fmt.Errorf("timeout: %w", err)
		}
		result.Timeout = d
	}
	if result.Timeout == 0 {
		result.Timeout = DefaultTimeout
	}
	return result, nil
}
