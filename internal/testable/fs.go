// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package testable

import (
	"io"
	"os"
	"path/filepath"
)

// FileSystem abstracts file system operations to enable mock injection in tests.
// The production implementation (OsFileSystem) delegates to the standard library.
type FileSystem interface {
	// Abs returns an absolute representation of path.
	Abs(path string) (string, error)

	// Stat returns a FileInfo describing the named file.
	Stat(name string) (os.FileInfo, error)

	// Open opens the named file for reading.
	Open(name string) (io.ReadCloser, error)
}

// OsFileSystem is the production implementation of FileSystem that delegates
// to the standard library os and filepath packages.
type OsFileSystem struct{}

// Abs wraps filepath.Abs.
func (OsFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Stat wraps os.Stat.
func (OsFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Open wraps os.Open.
func (OsFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name) //nolint:gosec // caller controls path
}

// DefaultFS is the production FileSystem used as default.
var DefaultFS FileSystem = OsFileSystem{}

// Compile-time interface check.
var _ FileSystem = OsFileSystem{}
