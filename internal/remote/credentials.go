// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package remote

import (
	"fmt"
	"net/url"
)

// Environment variables read by CredentialsFromEnv.
const (
	EnvProjectToken = "RESULTPUSH_PROJECT_TOKEN"
	EnvAPIToken     = "RESULTPUSH_API_TOKEN"
	EnvUsername     = "RESULTPUSH_USERNAME"
	EnvProject      = "RESULTPUSH_PROJECT"
)

// DefaultBaseURL is the aggregation service used when none is configured.
const DefaultBaseURL = "https://api.resultpush.dev"

// Credentials identify the project on the remote service. Either
// ProjectToken, or APIToken together with Username and Project, must be set.
type Credentials struct {
	ProjectToken string
	APIToken     string
	Username     string
	Project      string
}

// CredentialsFromEnv reads credentials using lookup (usually os.LookupEnv).
// It returns nil when no usable credentials are present.
func CredentialsFromEnv(lookup func(string) (string, bool)) *Credentials {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	creds := &Credentials{
		ProjectToken: get(EnvProjectToken),
		APIToken:     get(EnvAPIToken),
		Username:     get(EnvUsername),
		Project:      get(EnvProject),
	}
	if !creds.Valid() {
		return nil
	}
	return creds
}

// Valid reports whether the credentials can authenticate a request.
func (c *Credentials) Valid() bool {
	if c == nil {
		return false
	}
	if c.ProjectToken != "" {
		return true
	}
	return c.APIToken != "" && c.Username != "" && c.Project != ""
}

// scope returns the path segment that selects the project.
func (c *Credentials) scope() string {
	if c.ProjectToken != "" {
		return "project"
	}
	return fmt.Sprintf("%s/%s", url.PathEscape(c.Username), url.PathEscape(c.Project))
}

// header returns the authentication header name and value.
func (c *Credentials) header() (string, string) {
	if c.ProjectToken != "" {
		return "project-token", c.ProjectToken
	}
	return "api-token", c.APIToken
}
