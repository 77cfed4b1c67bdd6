// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Formats accepted by the format key. Kept in sync with the ingest package.
var validFormats = []string{"auto", "json", "sarif"}

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs *multierror.Error

	if cfg.APIBaseURL != "" {
		u, err := url.Parse(cfg.APIBaseURL)
		switch {
		case err != nil:
			errs = multierror.Append(errs, fmt.Errorf("api_base_url: %w", err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = multierror.Append(errs, fmt.Errorf("api_base_url: scheme must be http or https, got %q", u.Scheme))
		case u.Host == "":
			errs = multierror.Append(errs, fmt.Errorf("api_base_url: missing host in %q", cfg.APIBaseURL))
		}
	}

	if cfg.Format != "" && !slices.Contains(validFormats, strings.ToLower(cfg.Format)) {
		errs = multierror.Append(errs, fmt.Errorf("format: invalid value %q (must be %s)", cfg.Format, strings.Join(validFormats, ", ")))
	}

	if cfg.BatchSize < 0 {
		errs = multierror.Append(errs, fmt.Errorf("batch_size: must be non-negative, got %d", cfg.BatchSize))
	}

	if cfg.MaxInFlight < 0 {
		errs = multierror.Append(errs, fmt.Errorf("max_in_flight: must be non-negative, got %d", cfg.MaxInFlight))
	}

	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		switch {
		case err != nil:
			errs = multierror.Append(errs, fmt.Errorf("timeout: invalid duration %q", cfg.Timeout))
		case d <= 0:
			errs = multierror.Append(errs, fmt.Errorf("timeout: must be positive, got %s", cfg.Timeout))
		}
	}

	if (cfg.Username == "") != (cfg.Project == "") {
		errs = multierror.Append(errs, fmt.Errorf("username and project must be set together"))
	}

	for i, p := range cfg.Results {
		if strings.TrimSpace(p) == "" {
			errs = multierror.Append(errs, fmt.Errorf("results[%d]: empty path", i))
		}
	}
	for i, p := range cfg.Metrics {
		if strings.TrimSpace(p) == "" {
			errs = multierror.Append(errs, fmt.Errorf("metrics[%d]: empty path", i))
		}
	}

	if errs == nil {
		return nil
	}
	errs.ErrorFormat = formatErrors
	return errs
}

func formatErrors(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return fmt.Sprintf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}
