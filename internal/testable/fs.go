// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package testable provides interfaces for abstracting OS-level operations,
// enabling mock injection in tests without modifying production behavior.
package testable

import (
	"io"
	"os"
)

// FileSystem abstracts the file operations the CLI performs when writing
// reports.
type FileSystem interface {
	// Create creates or truncates the named file.
	Create(name string) (io.WriteCloser, error)

	// MkdirAll creates a directory named path, along with any necessary parents.
	MkdirAll(path string, perm os.FileMode) error
}

// OsFileSystem is the production implementation of FileSystem that delegates
// to the standard library os package.
type OsFileSystem struct{}

// Create wraps os.Create.
func (OsFileSystem) Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name) //nolint:gosec // caller controls path
	if err != nil {
		return nil, err
	}
	return f, nil
}

// MkdirAll wraps os.MkdirAll.
func (OsFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// DefaultFS is the production FileSystem.
var DefaultFS FileSystem = OsFileSystem{}
