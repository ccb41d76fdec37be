// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package testable

import (
	"io"
	"os"
)

// MockFileSystem is a test double for FileSystem. Each method has a
// corresponding function field. When the field is non-nil, the mock calls it;
// otherwise, it falls through to OsFileSystem.
type MockFileSystem struct {
	CreateFn   func(name string) (io.WriteCloser, error)
	MkdirAllFn func(path string, perm os.FileMode) error
}

var real OsFileSystem

// Create calls CreateFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Create(name string) (io.WriteCloser, error) {
	if m.CreateFn != nil {
		return m.CreateFn(name)
	}
	return real.Create(name)
}

// MkdirAll calls MkdirAllFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if m.MkdirAllFn != nil {
		return m.MkdirAllFn(path, perm)
	}
	return real.MkdirAll(path, perm)
}
