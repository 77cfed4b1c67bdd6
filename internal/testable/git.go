// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package testable provides interfaces for mocking external dependencies
// such as go-git operations. Production code uses the Real* implementations;
// tests can inject mock implementations to avoid hitting real git repos.
package testable

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitOpener abstracts opening a git repository. Production code uses
// RealGitOpener; tests inject a mock to avoid filesystem dependencies.
type GitOpener interface {
	PlainOpen(path string) (GitRepository, error)
}

// GitRepository abstracts the subset of *git.Repository methods used by
// resultpush: finding the analysed commit and the hosting remote.
type GitRepository interface {
	Head() (*plumbing.Reference, error)
	ResolveRevision(rev plumbing.Revision) (*plumbing.Hash, error)
	Remotes() ([]*git.Remote, error)
}

// RealGitOpener is the production implementation of GitOpener.
type RealGitOpener struct{}

// PlainOpen opens the git repository containing path. Parent directories are
// searched, so a subdirectory of a work tree is accepted.
func (RealGitOpener) PlainOpen(path string) (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return &RealGitRepository{repo: repo}, nil
}

// RealGitRepository wraps *git.Repository to satisfy GitRepository.
type RealGitRepository struct {
	repo *git.Repository
}

// Head returns the reference where HEAD is pointing to.
func (r *RealGitRepository) Head() (*plumbing.Reference, error) {
	return r.repo.Head()
}

// ResolveRevision resolves a revision such as a branch, tag or short hash.
func (r *RealGitRepository) ResolveRevision(rev plumbing.Revision) (*plumbing.Hash, error) {
	return r.repo.ResolveRevision(rev)
}

// Remotes returns a list of remotes in a repository.
func (r *RealGitRepository) Remotes() ([]*git.Remote, error) {
	return r.repo.Remotes()
}

// DefaultGitOpener is the production GitOpener used as default.
var DefaultGitOpener GitOpener = RealGitOpener{}

// Compile-time interface checks.
var _ GitOpener = RealGitOpener{}
var _ GitRepository = (*RealGitRepository)(nil)
