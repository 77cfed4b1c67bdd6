// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads the repository config from the given root. FileName is tried
// first, then TOMLFileName. Having both is an error.
// If neither file exists, it returns a zero-value Config and nil error.
func Load(repoPath string) (*Config, error) {
	yamlPath := filepath.Join(repoPath, FileName)
	tomlPath := filepath.Join(repoPath, TOMLFileName)

	yamlData, yamlErr := readOptional(yamlPath)
	if yamlErr != nil {
		return nil, yamlErr
	}
	tomlData, tomlErr := readOptional(tomlPath)
	if tomlErr != nil {
		return nil, tomlErr
	}

	switch {
	case yamlData != nil && tomlData != nil:
		return nil, fmt.Errorf("both %s and %s found in %s; keep one", FileName, TOMLFileName, repoPath)
	case yamlData != nil:
		return decodeYAML(yamlPath, yamlData)
	case tomlData != nil:
		return decodeTOML(tomlPath, tomlData)
	default:
		return &Config{}, nil
	}
}

// LoadFile reads a single config file, choosing the decoder by extension.
// A missing file yields a zero-value Config.
func LoadFile(path string) (*Config, error) {
	data, err := readOptional(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &Config{}, nil
	}
	if filepath.Ext(path) == ".toml" {
		return decodeTOML(path, data)
	}
	return decodeYAML(path, data)
}

// LoadRaw reads a config file as an untyped map, for key-path edits.
func LoadRaw(path string) (map[string]any, error) {
	data, err := readOptional(path)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any)
	if data == nil {
		return m, nil
	}
	if filepath.Ext(path) == ".toml" {
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return m, nil
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// WriteFile writes a raw config map to path in the format its extension names.
func WriteFile(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // user config path
	if err != nil {
		return err
	}
	if filepath.Ext(path) == ".toml" {
		err = toml.NewEncoder(f).Encode(data)
	} else {
		err = writeYAML(f, data)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	return writeYAML(w, cfg)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(v)
}

// readOptional returns nil data without error when path does not exist.
func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided repo path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func decodeYAML(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func decodeTOML(path string, data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing %s: unknown key %q", path, undecoded[0].String())
	}
	return &cfg, nil
}
