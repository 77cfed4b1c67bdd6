// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package main

import (
	"path/filepath"

	"github.com/davetashner/resultpush/internal/ingest"
)

// resolveRepoPath makes repoPath absolute and checks that it is a directory.
func resolveRepoPath(repoPath string) (string, error) {
	absPath, err := cmdFS.Abs(repoPath)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "resultpush: cannot resolve path %q (%v)", repoPath, err)
	}
	info, err := cmdFS.Stat(absPath)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "resultpush: path %q does not exist (check the path and try again)", repoPath)
	}
	if !info.IsDir() {
		return "", exitError(ExitInvalidArgs, "resultpush: %q is not a directory (provide a repository root)", repoPath)
	}
	return absPath, nil
}

// readInputs decodes every results and metrics file and merges them into one
// document. Relative file names are resolved against root.
func readInputs(root string, format ingest.Format, files []string) (*ingest.Document, error) {
	docs := make([]*ingest.Document, 0, len(files))
	for _, name := range files {
		doc, err := readInput(root, format, name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return ingest.Merge(docs...), nil
}

func readInput(root string, format ingest.Format, name string) (*ingest.Document, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	f, err := cmdFS.Open(path)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "resultpush: cannot open %q (%v)", name, err)
	}
	defer f.Close() //nolint:errcheck // read-only input

	doc, err := ingest.Read(f, name, format, ingest.Options{Root: root})
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "resultpush: %v", err)
	}
	return doc, nil
}
