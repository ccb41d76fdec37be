// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package runner

import (
	"time"

	"github.com/google/uuid"

	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
)

// CourseInfo identifies the course a report is about.
type CourseInfo struct {
	ID         int    `json:"id"`
	Code       string `json:"code"`
	ParsedCode string `json:"parsed_code"`
	URL        string `json:"url"`
}

// RowReport is the outcome of one rule.
type RowReport struct {
	Rule        string                   `json:"rule"`
	Description string                   `json:"description,omitempty"`
	Topic       rule.Topic               `json:"topic"`
	CanFix      bool                     `json:"can_fix"`
	Result      result.ValidationResult  `json:"result"`
	Fix         *result.ValidationResult `json:"fix,omitempty"`
	Runs        int                      `json:"runs"`
	Duration    time.Duration            `json:"duration_ns"`
	Error       string                   `json:"error,omitempty"`
	Visible     bool                     `json:"-"`
}

// Report is the outcome of one check or fix pass over a course.
type Report struct {
	RunID     uuid.UUID     `json:"run_id"`
	Course    CourseInfo    `json:"course"`
	Fixed     bool          `json:"fixed"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Rows      []RowReport   `json:"rows"`
}

func (rep *Report) finish(rows []*Row, onlyFailures bool) {
	rep.Rows = make([]RowReport, 0, len(rows))
	for _, row := range rows {
		res, _ := row.Result()
		rr := RowReport{
			Rule:        row.Rule.Name,
			Description: row.Rule.Description,
			Topic:       row.Rule.Topic,
			CanFix:      row.Rule.CanFix(),
			Result:      res,
			Runs:        row.Runs(),
			Duration:    row.Duration(),
			Visible:     row.Visible(onlyFailures),
		}
		if err := row.Err(); err != nil {
			rr.Error = err.Error()
		}
		if fixed, ok := row.FixResult(); ok {
			rr.Fix = &fixed
		}
		rep.Rows = append(rep.Rows, rr)
	}
	rep.Duration = time.Since(rep.StartedAt)
}

// VisibleRows returns the rows that are not filtered out.
func (rep *Report) VisibleRows() []RowReport {
	var out []RowReport
	for _, r := range rep.Rows {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// Counts tallies row results by status.
func (rep *Report) Counts() map[result.Status]int {
	counts := make(map[result.Status]int, 4)
	for _, r := range rep.Rows {
		counts[r.Result.Success]++
	}
	return counts
}

// HasFailures reports whether any rule failed.
func (rep *Report) HasFailures() bool {
	return rep.Counts()[result.StatusFailed] > 0
}

// AllErrored reports whether every rule errored instead of producing a
// result. An empty report has not errored.
func (rep *Report) AllErrored() bool {
	if len(rep.Rows) == 0 {
		return false
	}
	for _, r := range rep.Rows {
		if r.Error == "" {
			return false
		}
	}
	return true
}
