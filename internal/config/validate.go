// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/davetashner/coursefix/internal/output"
	"github.com/davetashner/coursefix/internal/rule"
)

// Canvas rejects per_page values above 100.
const maxPerPage = 100

const maxConcurrency = 32

var envName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("base_url: must be an absolute URL, got %q", cfg.BaseURL))
		} else if u.Scheme != "https" && u.Scheme != "http" {
			errs = append(errs, fmt.Sprintf("base_url: unsupported scheme %q", u.Scheme))
		}
	}

	if cfg.TokenEnv != "" && !envName.MatchString(cfg.TokenEnv) {
		errs = append(errs, fmt.Sprintf("token_env: %q is not a valid environment variable name", cfg.TokenEnv))
	}

	if cfg.OutputFormat != "" {
		if _, err := output.GetFormatter(cfg.OutputFormat); err != nil {
			errs = append(errs, fmt.Sprintf("output_format: %v", err))
		}
	}

	if cfg.Concurrency < 0 || cfg.Concurrency > maxConcurrency {
		errs = append(errs, fmt.Sprintf("concurrency: must be between 0 and %d, got %d", maxConcurrency, cfg.Concurrency))
	}

	if cfg.PerPage < 0 || cfg.PerPage > maxPerPage {
		errs = append(errs, fmt.Sprintf("per_page: must be between 0 and %d, got %d", maxPerPage, cfg.PerPage))
	}

	names := make([]string, 0, len(cfg.Rules))
	for name := range cfg.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := rule.Get(name); !ok {
			errs = append(errs, fmt.Sprintf("rules.%s: unknown rule", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
