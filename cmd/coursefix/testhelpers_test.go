// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/coursefix/internal/config"
	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/testable"
)

func init() {
	color.NoColor = true
}

// resetFlags restores every command's flags to their defaults so tests do
// not leak state through the shared rootCmd.
func resetFlags() {
	checkFlags.reset()
	fixFlags.reset()
	fixDryRun = false
	rulesListTopics = topicFlag{}
	rulesListJSON = false
	configGlobal = false
	verbose, quiet, noColor = false, false, false

	var visit func(c *cobra.Command)
	visit = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range c.Commands() {
			visit(sub)
		}
	}
	visit(rootCmd)
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

// newTestCmd returns rootCmd with its output redirected.
func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	resetFlags()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	return rootCmd, stdout, stderr
}

// isolate runs the test in an empty working directory with an empty global
// config directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return dir
}

// openedCourse records what openCourse was asked for.
type openedCourse struct {
	baseURL string
	id      int
	opts    config.Options
}

// withCourse replaces openCourse with one returning c.
func withCourse(t *testing.T, c course.Identity) *openedCourse {
	t.Helper()
	opened := &openedCourse{}
	orig := openCourse
	openCourse = func(_ context.Context, baseURL string, id int, opts config.Options) (course.Identity, error) {
		*opened = openedCourse{baseURL: baseURL, id: id, opts: opts}
		return c, nil
	}
	t.Cleanup(func() { openCourse = orig })
	return opened
}

// withMockFS swaps cmdFS with the given mock and restores it on test cleanup.
func withMockFS(t *testing.T, mock *testable.MockFileSystem) {
	t.Helper()
	orig := cmdFS
	cmdFS = mock
	t.Cleanup(func() { cmdFS = orig })
}

// requireExitCode asserts err carries the given exit code.
func requireExitCode(t *testing.T, err error, code int) *exitCodeError {
	t.Helper()
	require.Error(t, err)
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece), "expected exitCodeError, got %T: %v", err, err)
	require.Equal(t, code, ece.ExitCode(), ece.Error())
	return ece
}

// identityOnly is a course with no capabilities.
type identityOnly struct{}

func (identityOnly) ID() int            { return 9 }
func (identityOnly) CourseCode() string { return "HIST101" }
func (identityOnly) HTMLURL() string    { return "https://lms.test/courses/9" }

func passed() result.ValidationResult { return result.Passed("ok") }
func failed() result.ValidationResult { return result.Failed("bad") }
