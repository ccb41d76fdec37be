// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package textmatch holds the regex plumbing shared by every text rule:
// patterns with explicit all-matches/first-match semantics, bounded match
// highlights, and case-preserving replacement.
package textmatch

import (
	"regexp"
	"strings"
)

// Pattern pairs a compiled regular expression with a Global flag. Global
// patterns highlight and replace every match; non-global patterns only the
// first. A Pattern holds no iteration state, so one value can be shared by
// concurrent rule runs and reused across calls without any reset step.
type Pattern struct {
	re     *regexp.Regexp
	global bool
}

// New wraps an already compiled expression.
func New(re *regexp.Regexp, global bool) *Pattern {
	return &Pattern{re: re, global: global}
}

// Global compiles expr as a pattern that acts on every match.
// It panics if expr does not compile, like regexp.MustCompile.
func Global(expr string) *Pattern {
	return &Pattern{re: regexp.MustCompile(expr), global: true}
}

// Once compiles expr as a pattern that acts on the first match only.
// It panics if expr does not compile.
func Once(expr string) *Pattern {
	return &Pattern{re: regexp.MustCompile(expr), global: false}
}

// Regexp returns the underlying expression.
func (p *Pattern) Regexp() *regexp.Regexp { return p.re }

// IsGlobal reports whether the pattern acts on every match.
func (p *Pattern) IsGlobal() bool { return p.global }

// String returns the source text of the expression.
func (p *Pattern) String() string { return p.re.String() }

// NonGlobal returns a first-match copy of p, used for plain existence tests.
func (p *Pattern) NonGlobal() *Pattern {
	if !p.global {
		return p
	}
	return &Pattern{re: p.re, global: false}
}

// MatchString reports whether s contains any match.
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// FindIndexes returns the byte ranges of the matches in s: all of them for a
// global pattern, at most one otherwise.
func (p *Pattern) FindIndexes(s string) [][]int {
	if p.global {
		return p.re.FindAllStringIndex(s, -1)
	}
	if loc := p.re.FindStringIndex(s); loc != nil {
		return [][]int{loc}
	}
	return nil
}

// ReplaceTemplate substitutes template for the matches in s, expanding $1,
// ${name} and friends as regexp.Expand does.
func (p *Pattern) ReplaceTemplate(s, template string) string {
	if p.global {
		return p.re.ReplaceAllString(s, template)
	}
	loc := p.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var b strings.Builder
	b.WriteString(s[:loc[0]])
	b.Write(p.re.ExpandString(nil, template, s, loc))
	b.WriteString(s[loc[1]:])
	return b.String()
}

// ReplaceFunc replaces the matches in s with fn(match).
func (p *Pattern) ReplaceFunc(s string, fn func(string) string) string {
	if p.global {
		return p.re.ReplaceAllStringFunc(s, fn)
	}
	loc := p.re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + fn(s[loc[0]:loc[1]]) + s[loc[1]:]
}

// Matcher is anything that can say whether a string matches: a *Pattern or a
// Contains substring test.
type Matcher interface {
	MatchString(s string) bool
}

// Contains is a Matcher testing for a literal substring.
type Contains string

// MatchString reports whether s contains the substring.
func (c Contains) MatchString(s string) bool {
	return strings.Contains(s, string(c))
}

// String returns the substring.
func (c Contains) String() string { return string(c) }
