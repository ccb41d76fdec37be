// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package runner runs a batch of rules against one course and collects the
// results into a Report. A rule that errors or panics becomes a failed row;
// it never stops the rest of the batch.
package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
)

// DefaultConcurrency is the number of rules checked at once.
const DefaultConcurrency = 4

// Options configures a Runner.
type Options struct {
	// Concurrency bounds how many rules run at once. Zero means
	// DefaultConcurrency.
	Concurrency int

	// ShowOnlyFailures hides passing rows from the report's visible rows.
	// Every rule still runs.
	ShowOnlyFailures bool

	// RequestConfig is handed to every run.
	RequestConfig *course.RequestConfig
}

// Runner runs rules against courses.
type Runner struct {
	rules []rule.Rule
	opts  Options
}

// New returns a Runner for rules.
func New(rules []rule.Rule, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Runner{rules: rules, opts: opts}
}

// Rows builds unstarted rows for the rules that apply to c, in rule order.
func (r *Runner) Rows(c course.Identity) []*Row {
	applicable := rule.FilterForCourse(r.rules, c.CourseCode())
	rows := make([]*Row, len(applicable))
	for i, rl := range applicable {
		rows[i] = NewRow(rl)
	}
	if skipped := len(r.rules) - len(applicable); skipped > 0 {
		slog.Debug("rules skipped by course code", "course", c.CourseCode(), "skipped", skipped)
	}
	return rows
}

// Check runs every applicable rule once and reports the results.
func (r *Runner) Check(ctx context.Context, c course.Identity) (*Report, error) {
	rep := r.newReport(c)
	rows := r.Rows(c)
	if err := r.start(ctx, c, rows); err != nil {
		return nil, err
	}
	rep.finish(rows, r.opts.ShowOnlyFailures)
	return rep, nil
}

// Fix checks every applicable rule, then fixes the rows that failed and can
// be fixed. Fixes run one at a time in rule order since two rules may rewrite
// the same content.
func (r *Runner) Fix(ctx context.Context, c course.Identity) (*Report, error) {
	rep := r.newReport(c)
	rep.Fixed = true
	rows := r.Rows(c)
	if err := r.start(ctx, c, rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, _ := row.Result()
		if res.Success != result.StatusFailed || !row.Rule.CanFix() {
			continue
		}
		fixed, confirmed, err := row.Fix(ctx, c, r.opts.RequestConfig)
		if err != nil {
			return nil, err
		}
		slog.Info("fix applied", "rule", row.Rule.Name, "fix", fixed.Success, "after", confirmed.Success)
	}
	rep.finish(rows, r.opts.ShowOnlyFailures)
	return rep, nil
}

func (r *Runner) start(ctx context.Context, c course.Identity, rows []*Row) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for _, row := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row.Start(gctx, c, r.opts.RequestConfig)
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) newReport(c course.Identity) *Report {
	return &Report{
		RunID: uuid.New(),
		Course: CourseInfo{
			ID:         c.ID(),
			Code:       c.CourseCode(),
			ParsedCode: course.ParseCourseCode(c.CourseCode()),
			URL:        c.HTMLURL(),
		},
		StartedAt: time.Now(),
	}
}
