// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/coursefix/internal/config"
)

func TestConfigSetGetList(t *testing.T) {
	dir := isolate(t)

	cmd, stdout, _ := newTestCmd(t)
	cmd.SetArgs([]string{"config", "list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "No configuration set.")

	cmd, stdout, _ = newTestCmd(t)
	cmd.SetArgs([]string{"config", "set", "rules.tabs-hide-outcomes.enabled", "false"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Set rules.tabs-hide-outcomes.enabled = false\n", stdout.String())

	cmd, _, _ = newTestCmd(t)
	cmd.SetArgs([]string{"config", "set", "--global", "concurrency", "2"})
	require.NoError(t, cmd.Execute())

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.False(t, cfg.RuleEnabled("tabs-hide-outcomes"))

	cmd, stdout, _ = newTestCmd(t)
	cmd.SetArgs([]string{"config", "get", "concurrency"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "2\n", stdout.String())

	cmd, stdout, _ = newTestCmd(t)
	cmd.SetArgs([]string{"config", "get", "rules.tabs-hide-outcomes"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "enabled: false\n", stdout.String())

	cmd, stdout, _ = newTestCmd(t)
	cmd.SetArgs([]string{"config", "list"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "concurrency = 2 (global)\nrules.tabs-hide-outcomes.enabled = false (local)\n", stdout.String())
}

func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown key", []string{"config", "set", "max_issues", "3"}, `unknown key "max_issues"`},
		{"unknown rule", []string{"config", "set", "rules.nope.enabled", "false"}, `unknown rule "nope"`},
		{"invalid value", []string{"config", "set", "per_page", "500"}, "per_page: must be between 0 and 100"},
		{"wrong type", []string{"config", "set", "concurrency", "many"}, "invalid config after set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			cmd, _, _ := newTestCmd(t)
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, statErr := os.Stat(filepath.Join(dir, config.FileName))
			assert.True(t, os.IsNotExist(statErr), "nothing written")
		})
	}
}

func TestConfigGet_Missing(t *testing.T) {
	isolate(t)
	cmd, _, _ := newTestCmd(t)
	cmd.SetArgs([]string{"config", "get", "base_url"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
