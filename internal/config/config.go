// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package config handles .coursefix.yaml and .coursefix.toml configuration
// files.
package config

// Config represents the contents of a coursefix config file.
type Config struct {
	BaseURL      string                `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	TokenEnv     string                `yaml:"token_env,omitempty" toml:"token_env,omitempty"`
	OutputFormat string                `yaml:"output_format,omitempty" toml:"output_format,omitempty"`
	OnlyFailures *bool                 `yaml:"only_failures,omitempty" toml:"only_failures,omitempty"`
	Concurrency  int                   `yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`
	PerPage      int                   `yaml:"per_page,omitempty" toml:"per_page,omitempty"`
	Rules        map[string]RuleConfig `yaml:"rules,omitempty" toml:"rules,omitempty"`
}

// RuleConfig holds per-rule settings in the config file.
type RuleConfig struct {
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
}

// FileName is the expected YAML config file name in the working directory.
const FileName = ".coursefix.yaml"

// TOMLFileName is the TOML alternative to FileName.
const TOMLFileName = ".coursefix.toml"

// DefaultTokenEnv is the environment variable holding the API token when
// token_env is not set.
const DefaultTokenEnv = "CANVAS_API_TOKEN"

// RuleEnabled reports whether the named rule is enabled. Rules are enabled
// unless the config explicitly disables them.
func (c *Config) RuleEnabled(name string) bool {
	rc, ok := c.Rules[name]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}

// DisabledRules returns the names of explicitly disabled rules.
func (c *Config) DisabledRules() []string {
	var names []string
	for name := range c.Rules {
		if !c.RuleEnabled(name) {
			names = append(names, name)
		}
	}
	return names
}
