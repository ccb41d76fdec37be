// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package rule defines the Rule value shared by the catalog and the runner,
// and a registry for the rules available to the CLI.
package rule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
)

// ErrMissingCapability is returned when a rule is handed a course that does
// not implement the capability interface the rule was written against.
var ErrMissingCapability = errors.New("course lacks required capability")

// ErrNoFix is returned when Apply is called on a rule that declares no fix.
var ErrNoFix = errors.New("rule has no fix")

// RunFunc checks a course. It must not modify anything.
type RunFunc func(ctx context.Context, c any, cfg *course.RequestConfig) (result.ValidationResult, error)

// FixFunc repairs a course. prev, when non-nil, is the result of a preceding
// run whose UserData the fix may reuse instead of fetching again.
type FixFunc func(ctx context.Context, c any, prev *result.ValidationResult) (result.ValidationResult, error)

// Topic groups rules for listing and selection.
type Topic string

// Rule topics.
const (
	TopicSyllabus       Topic = "syllabus"
	TopicSettings       Topic = "settings"
	TopicContent        Topic = "content"
	TopicCourseSpecific Topic = "course-specific"
)

// Topics lists every topic in display order.
var Topics = []Topic{TopicSyllabus, TopicSettings, TopicContent, TopicCourseSpecific}

// Scope says which part of a course a rule reads.
type Scope string

// Rule scopes.
const (
	ScopeSyllabus Scope = "syllabus"
	ScopeContent  Scope = "content"
	ScopeCourse   Scope = "course"
)

// Example pairs content that fails a rule with content that passes it.
type Example struct {
	Bad  string
	Good string
}

// Rule is a named check with an optional fix. Rules are plain values built at
// package init; they hold no per-run state.
type Rule struct {
	Name        string
	Description string
	Topic       Topic
	Scope       Scope

	// CourseCodes restricts the rule to courses whose parsed code contains one
	// of these, compared case-insensitively. Empty means every course.
	CourseCodes []string

	// BeforeAndAfters and PositiveExemplars are fixtures: content the rule
	// must flag and fix, and content it must accept. Scope says whether they
	// are syllabus or content bodies.
	BeforeAndAfters   []Example
	PositiveExemplars []string

	Run RunFunc
	Fix FixFunc
}

// CanFix reports whether the rule declares a fix.
func (r Rule) CanFix() bool { return r.Fix != nil }

// Check runs the rule.
func (r Rule) Check(ctx context.Context, c any, cfg *course.RequestConfig) (result.ValidationResult, error) {
	if r.Run == nil {
		return result.ValidationResult{}, fmt.Errorf("rule %q: no run function", r.Name)
	}
	return r.Run(ctx, c, cfg)
}

// Apply runs the rule's fix.
func (r Rule) Apply(ctx context.Context, c any, prev *result.ValidationResult) (result.ValidationResult, error) {
	if r.Fix == nil {
		return result.ValidationResult{}, fmt.Errorf("rule %q: %w", r.Name, ErrNoFix)
	}
	return r.Fix(ctx, c, prev)
}

// AppliesTo reports whether the rule applies to a course with the given raw
// course code.
func (r Rule) AppliesTo(courseCode string) bool {
	if len(r.CourseCodes) == 0 {
		return true
	}
	parsed := strings.ToUpper(course.ParseCourseCode(courseCode))
	for _, code := range r.CourseCodes {
		if strings.Contains(parsed, strings.ToUpper(code)) {
			return true
		}
	}
	return false
}

// FilterForCourse keeps the rules that apply to courseCode, preserving order.
func FilterForCourse(rules []Rule, courseCode string) []Rule {
	var kept []Rule
	for _, r := range rules {
		if r.AppliesTo(courseCode) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Capable adapts a run function written against capability C. Courses that do
// not implement C get an error wrapping ErrMissingCapability.
func Capable[C any](fn func(ctx context.Context, c C, cfg *course.RequestConfig) (result.ValidationResult, error)) RunFunc {
	return func(ctx context.Context, c any, cfg *course.RequestConfig) (result.ValidationResult, error) {
		typed, err := assertCapability[C](c)
		if err != nil {
			return result.ValidationResult{}, err
		}
		return fn(ctx, typed, cfg)
	}
}

// CapableFix is Capable for fix functions.
func CapableFix[C any](fn func(ctx context.Context, c C, prev *result.ValidationResult) (result.ValidationResult, error)) FixFunc {
	return func(ctx context.Context, c any, prev *result.ValidationResult) (result.ValidationResult, error) {
		typed, err := assertCapability[C](c)
		if err != nil {
			return result.ValidationResult{}, err
		}
		return fn(ctx, typed, prev)
	}
}

func assertCapability[C any](c any) (C, error) {
	typed, ok := c.(C)
	if !ok {
		var zero C
		return zero, fmt.Errorf("%w: %T does not implement %T", ErrMissingCapability, c, (*C)(nil))
	}
	return typed, nil
}
