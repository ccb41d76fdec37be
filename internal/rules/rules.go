// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package rules is the catalog of course rules. Importing it registers every
// rule with the rule registry.
package rules

import "github.com/davetashner/coursefix/internal/rule"

// Catalog slices, one per topic.
var (
	SyllabusRules       []rule.Rule
	SettingsRules       []rule.Rule
	ContentRules        []rule.Rule
	CourseSpecificRules []rule.Rule
)

func init() {
	SyllabusRules = syllabusRules()
	SettingsRules = settingsRules()
	ContentRules = contentRules()
	CourseSpecificRules = courseSpecificRules()

	for _, set := range [][]rule.Rule{SyllabusRules, SettingsRules, ContentRules, CourseSpecificRules} {
		for _, r := range set {
			rule.Register(r)
		}
	}
}

// All returns the catalog in topic order.
func All() []rule.Rule {
	var out []rule.Rule
	out = append(out, SyllabusRules...)
	out = append(out, SettingsRules...)
	out = append(out, ContentRules...)
	out = append(out, CourseSpecificRules...)
	return out
}
