// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/coursefix/internal/config"
	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/course/coursetest"
	"github.com/davetashner/coursefix/internal/output"
	"github.com/davetashner/coursefix/internal/testable"
)

const courseURL = "https://canvas.example.edu/courses/7"

func settingsCourse(hideFinalGrades bool) *coursetest.Course {
	c := coursetest.New(7, "BP_ANIM301_Fall")
	c.Settings = course.Settings{"hide_final_grades": hideFinalGrades}
	return c
}

func TestCheck_Passing(t *testing.T) {
	isolate(t)
	opened := withCourse(t, settingsCourse(true))
	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL, "--rules", "settings-hide-final-grades"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "PASSED   settings-hide-final-grades")
	assert.Equal(t, "https://canvas.example.edu", opened.baseURL)
	assert.Equal(t, 7, opened.id)
	assert.Equal(t, config.DefaultTokenEnv, opened.opts.TokenEnv)
}

func TestCheck_FailingExitsTwo(t *testing.T) {
	isolate(t)
	withCourse(t, settingsCourse(false))
	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL, "--rules", "settings-hide-final-grades"})

	ece := requireExitCode(t, cmd.Execute(), ExitRulesFailed)
	assert.Equal(t, "coursefix: some rules failed", ece.Error())
	assert.Contains(t, stdout.String(), "FAILED   settings-hide-final-grades")
}

func TestCheck_AllErroredExitsThree(t *testing.T) {
	isolate(t)
	withCourse(t, identityOnly{})
	cmd, _, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL, "--topic", "settings"})

	requireExitCode(t, cmd.Execute(), ExitTotalFailure)
}

func TestCheck_JSONToFile(t *testing.T) {
	dir := isolate(t)
	withCourse(t, settingsCourse(true))
	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL, "--rules", "settings-hide-final-grades", "--format", "json", "-o", "out/report.json"})

	require.NoError(t, cmd.Execute())
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(filepath.Join(dir, "out", "report.json"))
	require.NoError(t, err)
	var env output.JSONEnvelope
	require.NoError(t, json.Unmarshal(data, &env))
	require.Len(t, env.Rows, 1)
	assert.Equal(t, "settings-hide-final-grades", env.Rows[0].Rule)
	assert.Equal(t, "ANIM301", env.Course.ParsedCode)
	assert.NotEmpty(t, env.Metadata.RunID)
}

func TestCheck_OnlyFailures(t *testing.T) {
	isolate(t)
	c := settingsCourse(true)
	c.Settings["allow_student_forum_attachments"] = true
	withCourse(t, c)
	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL, "--rules", "settings-hide-final-grades,settings-no-student-forum-attachments", "--only-failures"})

	requireExitCode(t, cmd.Execute(), ExitRulesFailed)
	assert.NotContains(t, stdout.String(), "settings-hide-final-grades")
	assert.Contains(t, stdout.String(), "settings-no-student-forum-attachments")
	assert.Contains(t, stdout.String(), "1 passing rules hidden")
}

func TestCheck_TopicFilter(t *testing.T) {
	isolate(t)
	withCourse(t, settingsCourse(true))
	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL, "--topic", "settings", "--format", "markdown"})

	err := cmd.Execute()
	if err != nil {
		requireExitCode(t, err, ExitRulesFailed)
	}
	out := stdout.String()
	assert.Contains(t, out, "## settings")
	assert.NotContains(t, out, "## syllabus")
	assert.NotContains(t, out, "## content")
}

func TestCheck_ConfigDisablesRule(t *testing.T) {
	dir := isolate(t)
	cfg := "base_url: https://canvas.example.edu\nrules:\n  settings-hide-final-grades:\n    enabled: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0o600))

	c := settingsCourse(false)
	c.Settings["hide_distribution_graphs"] = true
	c.Settings["allow_student_forum_attachments"] = false
	opened := withCourse(t, c)
	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", "7", "--topic", "settings"})

	err := cmd.Execute()
	if err != nil {
		// tab rules report unknown on a course without tabs
		requireExitCode(t, err, ExitRulesFailed)
	}
	assert.NotContains(t, stdout.String(), "settings-hide-final-grades")
	assert.Contains(t, stdout.String(), "settings-hide-distribution-graphs")
	assert.Equal(t, "https://canvas.example.edu", opened.baseURL)
	assert.Equal(t, 7, opened.id)
}

func TestCheck_InvalidArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown rule", []string{"check", courseURL, "--rules", "no-such-rule"}, `unknown rule: "no-such-rule"`},
		{"bare id without base_url", []string{"check", "7"}, "without base_url"},
		{"negative id", []string{"check", "--", "-3"}, "must be positive"},
		{"not a course url", []string{"check", "https://canvas.example.edu/accounts/1"}, "no course id"},
		{"bad format", []string{"check", courseURL, "--format", "sarif"}, `unknown format: "sarif"`},
		{"bad concurrency", []string{"check", courseURL, "--concurrency", "-1"}, "--concurrency must be non-negative"},
		{"topic and rules disjoint", []string{"check", courseURL, "--rules", "syllabus-ai-policy", "--topic", "settings"}, "no rules selected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			withCourse(t, settingsCourse(true))
			cmd, _, _ := newTestCmd(t)
			cmd.SetArgs(tt.args)
			ece := requireExitCode(t, cmd.Execute(), ExitInvalidArgs)
			assert.Contains(t, ece.Error(), tt.wantMsg)
		})
	}
}

func TestCheck_UnknownTopic(t *testing.T) {
	isolate(t)
	cmd, _, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL, "--topic", "grading"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown topic "grading"`)
}

func TestCheck_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("per_page: 1000\n"), 0o600))
	cmd, _, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL})

	ece := requireExitCode(t, cmd.Execute(), ExitInvalidArgs)
	assert.Contains(t, ece.Error(), "per_page")
}

func TestCheck_OpenCourseFails(t *testing.T) {
	isolate(t)
	orig := openCourse
	openCourse = func(context.Context, string, int, config.Options) (course.Identity, error) {
		return nil, errors.New("404 Not Found")
	}
	t.Cleanup(func() { openCourse = orig })

	cmd, _, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL})
	ece := requireExitCode(t, cmd.Execute(), ExitTotalFailure)
	assert.Contains(t, ece.Error(), "cannot open course 7 (404 Not Found)")
}

func TestCheck_MissingToken(t *testing.T) {
	isolate(t)
	t.Setenv("CANVAS_API_TOKEN", "")
	cmd, _, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL})

	ece := requireExitCode(t, cmd.Execute(), ExitTotalFailure)
	assert.Contains(t, ece.Error(), "no API token: set CANVAS_API_TOKEN")
}

func TestCheck_OutputCreateError(t *testing.T) {
	isolate(t)
	withCourse(t, settingsCourse(true))
	withMockFS(t, &testable.MockFileSystem{
		CreateFn: func(string) (io.WriteCloser, error) { return nil, errors.New("read-only file system") },
	})
	cmd, _, _ := newTestCmd(t)
	cmd.SetArgs([]string{"check", courseURL, "--rules", "settings-hide-final-grades", "-o", "report.txt"})

	ece := requireExitCode(t, cmd.Execute(), ExitInvalidArgs)
	assert.Contains(t, ece.Error(), `cannot create output file "report.txt"`)
}
