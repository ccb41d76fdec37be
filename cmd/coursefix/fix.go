// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/runner"
)

var (
	fixFlags  runFlags
	fixDryRun bool
)

// fixCmd checks rules and applies the fixes of the ones that failed.
var fixCmd = &cobra.Command{
	Use:   "fix <course> [rule...]",
	Short: "Fix the rules a course fails",
	Long: `Check the selected rules, then apply the fix of every rule that failed and
has one. Each fixed rule is checked again and the report shows the fix result
next to the new check result.

Rules named after the course narrow the run to those rules. Fixes are applied
one at a time in catalog order.

Examples:
  coursefix fix https://canvas.example.edu/courses/123 syllabus-ai-policy
  coursefix fix 123 --topic content
  coursefix fix 123 --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func init() {
	fixFlags.register(fixCmd)
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "check and list the fixes that would run without changing the course")
}

func runFix(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(&fixFlags)
	if err != nil {
		return err
	}
	rules, err := selectRules(&fixFlags, args[1:], opts.DisabledRules)
	if err != nil {
		return err
	}
	c, err := loadCourse(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	r := runner.New(rules, runnerOptions(opts))
	if fixDryRun {
		rep, err := r.Check(cmd.Context(), c)
		if err != nil {
			return exitError(ExitTotalFailure, "coursefix: check interrupted (%v)", err)
		}
		printDryRun(cmd, rep)
		return nil
	}

	rep, err := r.Fix(cmd.Context(), c)
	if err != nil {
		return exitError(ExitTotalFailure, "coursefix: fix interrupted (%v)", err)
	}
	if err := writeReport(cmd, rep, opts.OutputFormat, fixFlags.output); err != nil {
		return err
	}

	slog.Info("fix complete", "course", rep.Course.Code, "fixed", countFixed(rep), "duration", rep.Duration)
	if code := computeExitCode(rep); code != ExitOK {
		return exitError(code, "")
	}
	return nil
}

// printDryRun lists the failing rules and whether each would be fixed.
func printDryRun(cmd *cobra.Command, rep *runner.Report) {
	w := cmd.OutOrStdout()
	var fixable, manual []runner.RowReport
	for _, row := range rep.Rows {
		if row.Result.Success != result.StatusFailed {
			continue
		}
		if row.CanFix {
			fixable = append(fixable, row)
		} else {
			manual = append(manual, row)
		}
	}

	_, _ = fmt.Fprintf(w, "coursefix: dry run, %d fix(es) would be applied to %s\n", len(fixable), rep.Course.Code)
	for _, row := range fixable {
		_, _ = fmt.Fprintf(w, "  %s (%s)\n", row.Rule, row.Topic)
	}
	if len(manual) > 0 {
		_, _ = fmt.Fprintf(w, "%d failing rule(s) need manual attention:\n", len(manual))
		for _, row := range manual {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", row.Rule, rule.ErrNoFix)
		}
	}
}

func countFixed(rep *runner.Report) int {
	n := 0
	for _, row := range rep.Rows {
		if row.Fix != nil && row.Fix.Success == result.StatusPassed {
			n++
		}
	}
	return n
}
