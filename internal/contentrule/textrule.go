// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package contentrule

import (
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/textmatch"
)

// TextRule declares a find-and-replace rule.
type TextRule struct {
	Name        string
	Description string
	Topic       rule.Topic
	CourseCodes []string

	Bad     *textmatch.Pattern
	Replace textmatch.Replacer

	// Getter narrows the scan to one content kind. Nil scans every content
	// item plus the syllabus.
	Getter ContentGetter

	// SyllabusOnly scans and fixes only the syllabus; Getter is ignored.
	SyllabusOnly bool

	BeforeAndAfters   []rule.Example
	PositiveExemplars []string
}

// Rule builds the rule. A TextRule without Replace has no fix.
func (t TextRule) Rule() rule.Rule {
	r := rule.Rule{
		Name:              t.Name,
		Description:       t.Description,
		Topic:             t.Topic,
		Scope:             rule.ScopeContent,
		CourseCodes:       t.CourseCodes,
		BeforeAndAfters:   t.BeforeAndAfters,
		PositiveExemplars: t.PositiveExemplars,
	}
	if t.SyllabusOnly {
		r.Scope = rule.ScopeSyllabus
		r.Run = BadSyllabusRun(t.Bad)
		if t.Replace != nil {
			r.Fix = BadSyllabusFix(t.Bad, t.Replace)
		}
		return r
	}
	r.Run = BadContentRun(t.Bad, t.Getter)
	if t.Replace != nil {
		r.Fix = BadContentFix(t.Bad, t.Replace, t.Getter)
	}
	return r
}
