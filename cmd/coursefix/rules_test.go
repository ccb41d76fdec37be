// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/coursefix/internal/rule"
)

func TestRulesList(t *testing.T) {
	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"rules", "list"})

	require.NoError(t, cmd.Execute())
	out := stdout.String()
	for _, topic := range rule.Topics {
		assert.Contains(t, out, string(topic)+" (")
	}
	assert.Contains(t, out, "[fix] syllabus-ai-policy")
	assert.Contains(t, out, "prof590-capstone-portfolio [PROF590]")
}

func TestRulesList_JSONAndTopic(t *testing.T) {
	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"rules", "list", "--json", "--topic", "settings"})

	require.NoError(t, cmd.Execute())
	var got []ruleSummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	require.NotEmpty(t, got)
	for _, r := range got {
		assert.Equal(t, rule.TopicSettings, r.Topic, r.Name)
	}
	assert.Len(t, got, len(rule.ByTopic(rule.TopicSettings)))
}

func TestRulesInfo(t *testing.T) {
	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"rules", "info", "syllabus-ai-policy"})

	require.NoError(t, cmd.Execute())
	out := stdout.String()
	assert.Contains(t, out, "syllabus-ai-policy\n")
	assert.Contains(t, out, "  topic:    syllabus\n")
	assert.Contains(t, out, "  can fix:  true\n")
	assert.Contains(t, out, "  courses:  all\n")
	assert.Contains(t, out, "Example 1\n  before: <div><h2>Course Policies</h2>")
	assert.Contains(t, out, "Already compliant")
}

func TestRulesInfo_Unknown(t *testing.T) {
	cmd, _, _ := newTestCmd(t)
	cmd.SetArgs([]string{"rules", "info", "nope"})

	ece := requireExitCode(t, cmd.Execute(), ExitInvalidArgs)
	assert.Contains(t, ece.Error(), `unknown rule: "nope"`)
}
