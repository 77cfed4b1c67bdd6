// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GetValue retrieves a value from a Config by key.
func GetValue(cfg *Config, key string) (any, error) {
	m, err := configToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	val, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("key %q not set", key)
	}
	return val, nil
}

// SetValue sets a value in a raw config map. List keys accept a
// comma-separated value.
func SetValue(data map[string]any, key string, rawValue string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if listKeys()[key] {
		parts := strings.Split(rawValue, ",")
		items := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		data[key] = items
		return nil
	}
	data[key] = coerceValue(rawValue)
	return nil
}

// Flatten returns the set keys of cfg with their values.
func Flatten(cfg *Config) (map[string]any, error) {
	return configToMap(cfg)
}

// ValidateKey checks that key names a Config field. It uses yaml struct
// tags to build the valid key set.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	keys := yamlKeys(reflect.TypeOf(Config{}))
	if _, ok := keys[key]; !ok {
		return fmt.Errorf("unknown key %q; valid keys: %s", key, sortedKeys(keys))
	}
	return nil
}

// FromRaw decodes a raw config map into a Config so it can be validated.
func FromRaw(data map[string]any) (*Config, error) {
	b, err := yaml.Marshal(data)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// configToMap marshals a Config to a map via YAML round-trip.
func configToMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// coerceValue parses a string into bool, int, or keeps it as string.
func coerceValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return s
}

func listKeys() map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(Config{})
	for i := range t.NumField() {
		if t.Field(i).Type.Kind() == reflect.Slice {
			keys[strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]] = true
		}
	}
	return keys
}

// yamlKeys extracts yaml tag names from a struct type.
func yamlKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool)
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			keys[name] = true
		}
	}
	return keys
}

// sortedKeys returns a comma-separated sorted list of map keys.
func sortedKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}
