// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package gitinfo reads the facts an upload needs from the local git
// repository: the analysed commit and the GitHub repository it lives in.
package gitinfo

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/davetashner/resultpush/internal/testable"
)

// sshRemotePattern matches git@github.com:owner/repo.git SSH URLs.
var sshRemotePattern = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)

// ErrNotGitHub is returned when the origin remote is not hosted on GitHub.
var ErrNotGitHub = errors.New("origin remote is not a GitHub URL")

// ResolveCommit returns the full hash of rev in the repository at repoPath.
// An empty rev means HEAD.
func ResolveCommit(opener testable.GitOpener, repoPath, rev string) (string, error) {
	repo, err := opener.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("opening repo: %w", err)
	}

	if rev == "" || rev == "HEAD" {
		ref, err := repo.Head()
		if err != nil {
			return "", fmt.Errorf("reading HEAD: %w", err)
		}
		return ref.Hash().String(), nil
	}

	h, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", rev, err)
	}
	return h.String(), nil
}

// GitHubRemote extracts the owner and repo name from the origin remote URL.
// Supports both HTTPS and SSH formats.
func GitHubRemote(opener testable.GitOpener, repoPath string) (owner, repo string, err error) {
	gitRepo, err := opener.PlainOpen(repoPath)
	if err != nil {
		return "", "", fmt.Errorf("opening repo: %w", err)
	}

	remotes, err := gitRepo.Remotes()
	if err != nil {
		return "", "", fmt.Errorf("listing remotes: %w", err)
	}

	var originURLs []string
	for _, r := range remotes {
		if r.Config().Name == "origin" {
			originURLs = r.Config().URLs
			break
		}
	}
	if len(originURLs) == 0 {
		return "", "", fmt.Errorf("no origin remote found")
	}
	return ParseGitHubURL(originURLs[0])
}

// ParseGitHubURL parses a GitHub URL (HTTPS or SSH) into owner and repo.
func ParseGitHubURL(rawURL string) (owner, repo string, err error) {
	if m := sshRemotePattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], m[2], nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	if parsed.Host != "github.com" {
		return "", "", fmt.Errorf("%w: %q", ErrNotGitHub, rawURL)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse owner/repo from %q", rawURL)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
