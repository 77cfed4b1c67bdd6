// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"

	"github.com/davetashner/resultpush/internal/notify"
	"github.com/davetashner/resultpush/internal/testable"
)

// cmdFS is the file system implementation used by CLI commands.
// Override in tests with a testable.MockFileSystem.
var cmdFS testable.FileSystem = testable.DefaultFS

// cmdGit opens git repositories for commit and remote lookups.
var cmdGit testable.GitOpener = testable.DefaultGitOpener

// lookupEnv reads environment variables. Tests replace it to avoid leaking
// the developer's credentials into a run.
var lookupEnv = os.LookupEnv

// statusNotifier posts a commit status.
type statusNotifier interface {
	Notify(ctx context.Context, sha string, s notify.Status) error
}

// newStatusNotifier builds the GitHub notifier; replaced in tests.
var newStatusNotifier = func(token, owner, repo, baseURL string) (statusNotifier, error) {
	return notify.NewGitHub(token, owner, repo, baseURL)
}
