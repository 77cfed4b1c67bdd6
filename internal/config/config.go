// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package config handles .resultpush.yaml and .resultpush.toml configuration files.
package config

import "time"

// Config represents the contents of a repository or global config file.
// Tokens are deliberately absent: they are only read from the environment.
type Config struct {
	APIBaseURL   string   `yaml:"api_base_url,omitempty" toml:"api_base_url,omitempty"`
	Username     string   `yaml:"username,omitempty" toml:"username,omitempty"`
	Project      string   `yaml:"project,omitempty" toml:"project,omitempty"`
	Format       string   `yaml:"format,omitempty" toml:"format,omitempty"`
	BatchSize    int      `yaml:"batch_size,omitempty" toml:"batch_size,omitempty"`
	MaxInFlight  int      `yaml:"max_in_flight,omitempty" toml:"max_in_flight,omitempty"`
	Timeout      string   `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	GitHubStatus *bool    `yaml:"github_status,omitempty" toml:"github_status,omitempty"`
	Results      []string `yaml:"results,omitempty" toml:"results,omitempty"`
	Metrics      []string `yaml:"metrics,omitempty" toml:"metrics,omitempty"`
}

// Settings is the effective configuration of one upload, after CLI flags,
// environment and config files have been combined.
type Settings struct {
	APIBaseURL   string
	Username     string
	Project      string
	Format       string
	BatchSize    int
	MaxInFlight  int
	Timeout      time.Duration
	GitHubStatus bool
	Results      []string
	Metrics      []string
}

// FileName is the expected YAML config file name in a repository root.
const FileName = ".resultpush.yaml"

// TOMLFileName is the TOML alternative to FileName.
const TOMLFileName = ".resultpush.toml"

// DefaultTimeout bounds a whole upload session when nothing else is configured.
const DefaultTimeout = 15 * time.Minute
