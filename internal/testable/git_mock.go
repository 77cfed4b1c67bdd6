// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package testable

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// MockGitOpener is a test double for GitOpener.
// Set OpenFunc to control PlainOpen behavior. If nil, PlainOpen returns
// the Repo field (or ErrRepositoryNotExists if Repo is nil).
type MockGitOpener struct {
	// Repo is the repository returned by PlainOpen when OpenFunc is nil.
	Repo GitRepository

	// OpenErr is the error returned by PlainOpen when OpenFunc is nil.
	OpenErr error

	// OpenFunc, if set, is called instead of using Repo/OpenErr.
	OpenFunc func(path string) (GitRepository, error)

	// OpenCalls records the paths passed to PlainOpen.
	OpenCalls []string
}

// PlainOpen records the call and delegates to OpenFunc or returns Repo/OpenErr.
func (m *MockGitOpener) PlainOpen(path string) (GitRepository, error) {
	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Repo != nil {
		return m.Repo, nil
	}
	return nil, git.ErrRepositoryNotExists
}

// MockGitRepository is a test double for GitRepository.
type MockGitRepository struct {
	// HeadRef is returned by Head().
	HeadRef *plumbing.Reference
	// HeadErr is the error returned by Head().
	HeadErr error

	// Revisions maps revisions to hashes for ResolveRevision(). A miss
	// returns plumbing.ErrReferenceNotFound.
	Revisions map[plumbing.Revision]plumbing.Hash

	// RemotesList is returned by Remotes().
	RemotesList []*git.Remote
	// RemotesErr is the error returned by Remotes().
	RemotesErr error
}

// Head returns HeadRef and HeadErr.
func (m *MockGitRepository) Head() (*plumbing.Reference, error) {
	return m.HeadRef, m.HeadErr
}

// ResolveRevision looks up rev in Revisions.
func (m *MockGitRepository) ResolveRevision(rev plumbing.Revision) (*plumbing.Hash, error) {
	if h, ok := m.Revisions[rev]; ok {
		return &h, nil
	}
	return nil, plumbing.ErrReferenceNotFound
}

// Remotes returns RemotesList and RemotesErr.
func (m *MockGitRepository) Remotes() ([]*git.Remote, error) {
	return m.RemotesList, m.RemotesErr
}

// Compile-time interface checks.
var _ GitOpener = (*MockGitOpener)(nil)
var _ GitRepository = (*MockGitRepository)(nil)
