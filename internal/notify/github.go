// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package notify reports the outcome of an upload back to the code host.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v68/github"
)

// StatusContext is the commit status context resultpush writes.
const StatusContext = "resultpush/upload"

// State of a commit status.
type State string

// Commit status states understood by GitHub.
const (
	StatePending State = "pending"
	StateSuccess State = "success"
	StateFailure State = "failure"
	StateError   State = "error"
)

// maxDescription is GitHub's limit on status descriptions.
const maxDescription = 140

// Status is one commit status update.
type Status struct {
	State       State
	Description string
	TargetURL   string
}

// statusAPI abstracts the GitHub API for testing.
type statusAPI interface {
	CreateStatus(ctx context.Context, owner, repo, ref string, status *github.RepoStatus) (*github.RepoStatus, *github.Response, error)
}

// realStatusAPI wraps the real go-github client to implement statusAPI.
type realStatusAPI struct {
	client *github.Client
}

func (r *realStatusAPI) CreateStatus(ctx context.Context, owner, repo, ref string, status *github.RepoStatus) (*github.RepoStatus, *github.Response, error) {
	return r.client.Repositories.CreateStatus(ctx, owner, repo, ref, status)
}

// GitHub posts commit statuses to one repository.
type GitHub struct {
	api   statusAPI
	owner string
	repo  string
}

// NewGitHub returns a notifier authenticated with token. An empty baseURL
// targets github.com; otherwise it names a GitHub Enterprise API root.
func NewGitHub(token, owner, repo, baseURL string) (*GitHub, error) {
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN not set (set via: export GITHUB_TOKEN=$(gh auth token))")
	}
	client := github.NewClient(nil).WithAuthToken(token)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
	}
	return &GitHub{api: &realStatusAPI{client: client}, owner: owner, repo: repo}, nil
}

// Notify sets the status of commit sha.
func (g *GitHub) Notify(ctx context.Context, sha string, s Status) error {
	desc := s.Description
	if len(desc) > maxDescription {
		desc = strings.TrimSpace(desc[:maxDescription-3]) + "..."
	}
	status := &github.RepoStatus{
		State:       github.Ptr(string(s.State)),
		Description: github.Ptr(desc),
		Context:     github.Ptr(StatusContext),
	}
	if s.TargetURL != "" {
		status.TargetURL = github.Ptr(s.TargetURL)
	}

	_, _, err := g.api.CreateStatus(ctx, g.owner, g.repo, sha, status)
	if err != nil {
		return fmt.Errorf("setting commit status on %s/%s@%s: %w", g.owner, g.repo, shortSHA(sha), err)
	}
	slog.Debug("commit status set", "repo", g.owner+"/"+g.repo, "sha", shortSHA(sha), "state", s.State)
	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
