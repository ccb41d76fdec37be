// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValue(t *testing.T) {
	cfg := &Config{
		OutputFormat: "json",
		Concurrency:  3,
		Rules:        map[string]RuleConfig{"syllabus-ai-policy": {Enabled: boolPtr(false)}},
	}

	v, err := GetValue(cfg, "output_format")
	require.NoError(t, err)
	assert.Equal(t, "json", v)

	v, err = GetValue(cfg, "concurrency")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = GetValue(cfg, "rules.syllabus-ai-policy.enabled")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = GetValue(cfg, "base_url")
	assert.ErrorContains(t, err, "not found")

	_, err = GetValue(cfg, "output_format.deeper")
	assert.ErrorContains(t, err, "parent is not a map")
}

func TestSetValue(t *testing.T) {
	m := map[string]any{"output_format": "text"}
	require.NoError(t, SetValue(m, "concurrency", "4"))
	require.NoError(t, SetValue(m, "only_failures", "true"))
	require.NoError(t, SetValue(m, "rules.tabs-show-syllabus.enabled", "false"))
	require.NoError(t, SetValue(m, "base_url", "https://x.example.edu"))

	assert.Equal(t, 4, m["concurrency"])
	assert.Equal(t, true, m["only_failures"])
	assert.Equal(t, "https://x.example.edu", m["base_url"])
	assert.Equal(t, map[string]any{"tabs-show-syllabus": map[string]any{"enabled": false}}, m["rules"])

	assert.ErrorContains(t, SetValue(m, "output_format.x", "1"), "is not a map")
	assert.ErrorContains(t, SetValue(m, "", "1"), "empty key path")
}

func TestFlattenMap(t *testing.T) {
	got := FlattenMap(map[string]any{
		"a": 1,
		"rules": map[string]any{
			"r1": map[string]any{"enabled": false},
		},
	}, "")
	assert.Equal(t, map[string]any{"a": 1, "rules.r1.enabled": false}, got)
}

func TestValidateKeyPath(t *testing.T) {
	tests := []struct {
		key     string
		wantErr string
	}{
		{"base_url", ""},
		{"per_page", ""},
		{"rules.syllabus-ai-policy", ""},
		{"rules.syllabus-ai-policy.enabled", ""},
		{"", "empty key path"},
		{"max_issues", `unknown key "max_issues"`},
		{"concurrency.x", "is a scalar"},
		{"rules", "requires a rule name"},
		{"rules.no-such-rule", `unknown rule "no-such-rule"`},
		{"rules.syllabus-ai-policy.severity", `unknown rule field "severity"`},
		{"rules.syllabus-ai-policy.enabled.x", "too deep"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKeyPath(tt.key)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
