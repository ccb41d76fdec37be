// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package config

import "sort"

// Options is the configuration a command runs with after flags and files are
// combined.
type Options struct {
	BaseURL       string
	TokenEnv      string
	OutputFormat  string
	OnlyFailures  bool
	Concurrency   int
	PerPage       int
	DisabledRules []string
}

// Layer merges global and repo configs. Repo values take precedence; only
// non-zero repo values override global values.
func Layer(global, repo *Config) *Config {
	merged := *global

	if repo.BaseURL != "" {
		merged.BaseURL = repo.BaseURL
	}
	if repo.TokenEnv != "" {
		merged.TokenEnv = repo.TokenEnv
	}
	if repo.OutputFormat != "" {
		merged.OutputFormat = repo.OutputFormat
	}
	if repo.OnlyFailures != nil {
		merged.OnlyFailures = repo.OnlyFailures
	}
	if repo.Concurrency != 0 {
		merged.Concurrency = repo.Concurrency
	}
	if repo.PerPage != 0 {
		merged.PerPage = repo.PerPage
	}

	// Rule configs: repo overrides global per rule.
	if len(repo.Rules) > 0 {
		rules := make(map[string]RuleConfig, len(global.Rules)+len(repo.Rules))
		for name, rc := range global.Rules {
			rules[name] = rc
		}
		for name, rc := range repo.Rules {
			rules[name] = rc
		}
		merged.Rules = rules
	}

	return &merged
}

// Merge combines file-based config with CLI-provided Options.
// CLI values take precedence; zero-value CLI fields fall through to file config.
func Merge(fileCfg *Config, cli Options) Options {
	result := cli

	if result.BaseURL == "" {
		result.BaseURL = fileCfg.BaseURL
	}
	if result.TokenEnv == "" {
		result.TokenEnv = fileCfg.TokenEnv
	}
	if result.TokenEnv == "" {
		result.TokenEnv = DefaultTokenEnv
	}
	if result.OutputFormat == "" {
		result.OutputFormat = fileCfg.OutputFormat
	}

	// OnlyFailures: CLI wins if true, otherwise file config.
	if !result.OnlyFailures && fileCfg.OnlyFailures != nil && *fileCfg.OnlyFailures {
		result.OnlyFailures = true
	}

	if result.Concurrency == 0 && fileCfg.Concurrency > 0 {
		result.Concurrency = fileCfg.Concurrency
	}
	if result.PerPage == 0 && fileCfg.PerPage > 0 {
		result.PerPage = fileCfg.PerPage
	}

	disabled := append([]string(nil), cli.DisabledRules...)
	disabled = append(disabled, fileCfg.DisabledRules()...)
	sort.Strings(disabled)
	result.DisabledRules = compact(disabled)

	return result
}

// compact drops adjacent duplicates from a sorted slice.
func compact(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
