// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package syllabus

import (
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/textmatch"
)

// SectionRule declares a rule requiring content in a named syllabus section.
type SectionRule struct {
	Name        string
	Description string
	CourseCodes []string

	// Topic defaults to rule.TopicSyllabus.
	Topic rule.Topic

	Header textmatch.Matcher
	Body   textmatch.Matcher

	// Insert is added by the fix at Position. Empty means no fix.
	Insert   string
	Position Position

	BeforeAndAfters   []rule.Example
	PositiveExemplars []string
}

// Rule builds the rule.
func (s SectionRule) Rule() rule.Rule {
	topic := s.Topic
	if topic == "" {
		topic = rule.TopicSyllabus
	}
	run := InSection(s.Header, s.Body)
	r := rule.Rule{
		Name:              s.Name,
		Description:       s.Description,
		Topic:             topic,
		Scope:             rule.ScopeSyllabus,
		CourseCodes:       s.CourseCodes,
		BeforeAndAfters:   s.BeforeAndAfters,
		PositiveExemplars: s.PositiveExemplars,
		Run:               run,
	}
	if s.Insert != "" {
		r.Fix = AddSectionFix(run, s.Insert, s.Position)
	}
	return r
}
