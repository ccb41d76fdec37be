// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/davetashner/coursefix/internal/runner"
)

var checkFlags runFlags

// checkCmd runs the rule catalog against one course without changing it.
var checkCmd = &cobra.Command{
	Use:   "check <course>",
	Short: "Check a course against the rule catalog",
	Long: `Run every applicable rule against a course and report the results.

<course> is a course URL (https://canvas.example.edu/courses/123) or a numeric
course id used with base_url from the config. The API token is read from the
environment variable named by token_env (default CANVAS_API_TOKEN).

Rules restricted to particular course codes only run on matching courses.
Exit status is 0 when no rule failed, 2 when some rule failed and 3 when every
rule errored.

Examples:
  coursefix check https://canvas.example.edu/courses/123
  coursefix check 123 --topic syllabus,settings
  coursefix check 123 --rules syllabus-ai-policy --format json -o report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkFlags.register(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(&checkFlags)
	if err != nil {
		return err
	}
	rules, err := selectRules(&checkFlags, nil, opts.DisabledRules)
	if err != nil {
		return err
	}
	c, err := loadCourse(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	rep, err := runner.New(rules, runnerOptions(opts)).Check(cmd.Context(), c)
	if err != nil {
		return exitError(ExitTotalFailure, "coursefix: check interrupted (%v)", err)
	}
	if err := writeReport(cmd, rep, opts.OutputFormat, checkFlags.output); err != nil {
		return err
	}

	slog.Info("check complete", "course", rep.Course.Code, "rules", len(rep.Rows), "duration", rep.Duration)
	if code := computeExitCode(rep); code != ExitOK {
		return exitError(code, "")
	}
	return nil
}
