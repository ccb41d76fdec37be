// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/davetashner/coursefix/internal/config"
	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/lms"
	"github.com/davetashner/coursefix/internal/output"
	"github.com/davetashner/coursefix/internal/redact"
	"github.com/davetashner/coursefix/internal/rule"
	_ "github.com/davetashner/coursefix/internal/rules"
	"github.com/davetashner/coursefix/internal/runner"
)

const defaultFormat = "text"

// openCourse loads the course at id on the LMS at baseURL. Tests replace it
// with an in-memory course.
var openCourse = func(ctx context.Context, baseURL string, id int, opts config.Options) (course.Identity, error) {
	redact.RegisterEnv(opts.TokenEnv)
	token := os.Getenv(opts.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("no API token: set %s", opts.TokenEnv)
	}
	client, err := lms.New(ctx, baseURL, token)
	if err != nil {
		return nil, err
	}
	c, err := client.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// loadOptions combines the config files with the command's flags.
func loadOptions(rf *runFlags) (config.Options, error) {
	if rf.concurrency < 0 {
		return config.Options{}, exitError(ExitInvalidArgs, "coursefix: --concurrency must be non-negative (got %d)", rf.concurrency)
	}

	fileCfg, err := config.LoadAll(".")
	if err != nil {
		return config.Options{}, exitError(ExitInvalidArgs, "coursefix: cannot load config (%v)", err)
	}
	if err := config.Validate(fileCfg); err != nil {
		return config.Options{}, exitError(ExitInvalidArgs, "coursefix: %v", err)
	}

	opts := config.Merge(fileCfg, config.Options{
		OutputFormat: rf.format,
		OnlyFailures: rf.onlyFailures,
		Concurrency:  rf.concurrency,
	})
	if opts.OutputFormat == "" {
		opts.OutputFormat = defaultFormat
	}
	if _, err := output.GetFormatter(opts.OutputFormat); err != nil {
		return config.Options{}, exitError(ExitInvalidArgs, "coursefix: %v", err)
	}
	return opts, nil
}

// selectRules resolves --rules and --topic against the registry. Rules
// disabled in config are dropped unless named explicitly.
func selectRules(rf *runFlags, extra []string, disabled []string) ([]rule.Rule, error) {
	names := append(rf.ruleNames(), extra...)
	selected, err := rule.Select(names)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "coursefix: %v", err)
	}

	explicit := len(names) > 0
	var out []rule.Rule
	for _, r := range selected {
		if !explicit && slices.Contains(disabled, r.Name) {
			continue
		}
		if !rf.topics.has(r.Topic) {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, exitError(ExitInvalidArgs, "coursefix: no rules selected")
	}
	return out, nil
}

// resolveTarget turns a course argument into an LMS base URL and course id.
// The argument is either a course URL or a numeric id used with base_url.
func resolveTarget(arg, baseURL string) (string, int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if id <= 0 {
			return "", 0, fmt.Errorf("course id must be positive (got %d)", id)
		}
		if baseURL == "" {
			return "", 0, fmt.Errorf("course id %d given without base_url; pass a course URL or set base_url", id)
		}
		return baseURL, id, nil
	}
	return lms.ParseCourseURL(arg)
}

// loadCourse resolves and opens the course named by arg.
func loadCourse(ctx context.Context, arg string, opts config.Options) (course.Identity, error) {
	base, id, err := resolveTarget(arg, opts.BaseURL)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "coursefix: %v", err)
	}
	c, err := openCourse(ctx, base, id, opts)
	if err != nil {
		return nil, exitError(ExitTotalFailure, "coursefix: cannot open course %d (%v)", id, err)
	}
	return c, nil
}

func runnerOptions(opts config.Options) runner.Options {
	ro := runner.Options{
		Concurrency:      opts.Concurrency,
		ShowOnlyFailures: opts.OnlyFailures,
	}
	if opts.PerPage > 0 {
		ro.RequestConfig = &course.RequestConfig{PerPage: opts.PerPage}
	}
	return ro
}

// writeReport formats rep to --output, or to stdout.
func writeReport(cmd *cobra.Command, rep *runner.Report, format, outPath string) error {
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return exitError(ExitInvalidArgs, "coursefix: %v", err)
	}

	w := cmd.OutOrStdout()
	if outPath != "" {
		if dir := filepath.Dir(outPath); dir != "." {
			if err := cmdFS.MkdirAll(dir, 0o750); err != nil {
				return exitError(ExitInvalidArgs, "coursefix: cannot create output directory %q (%v)", dir, err)
			}
		}
		f, err := cmdFS.Create(outPath)
		if err != nil {
			return exitError(ExitInvalidArgs, "coursefix: cannot create output file %q (%v)", outPath, err)
		}
		defer f.Close() //nolint:errcheck // best-effort close on output file
		w = f
	}

	if err := formatter.Format(rep, w); err != nil {
		return exitError(ExitTotalFailure, "coursefix: formatting failed (%v)", err)
	}
	return nil
}
