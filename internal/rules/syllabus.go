// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package rules

import (
	"github.com/davetashner/coursefix/internal/contentrule"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/syllabus"
	"github.com/davetashner/coursefix/internal/textmatch"
)

const (
	apaStatement = `<p>All written work must follow APA format, 7th edition.</p>`
	aiPolicy     = `<h3>Use of Artificial Intelligence</h3>` +
		`<p>Generative AI tools may be used only where an assignment allows it, and their use must be disclosed.</p>`
	gradeAppeals = `<h3>Grade Appeals</h3>` +
		`<p>Appeal a grade by messaging your instructor within seven days of the grade being posted.</p>`
)

func syllabusRules() []rule.Rule {
	return []rule.Rule{
		syllabus.SectionRule{
			Name:        "syllabus-apa-format",
			Description: "The Grading Policies section states that written work follows APA format.",
			Header:      textmatch.Once(`(?i)grading polic`),
			Body:        textmatch.Once(`(?i)\bAPA\b`),
			Insert:      apaStatement,
			Position:    syllabus.AtEnd,
			BeforeAndAfters: []rule.Example{{
				Bad:  `<div><h2>Grading Policies</h2><p>Late work loses 10% per day.</p></div>`,
				Good: `<div><h2>Grading Policies</h2><p>Late work loses 10% per day.</p>` + apaStatement + `</div>`,
			}},
			PositiveExemplars: []string{
				`<div><h3>Grading Policy</h3><p>Cite sources in APA style.</p></div>`,
			},
		}.Rule(),

		syllabus.SectionRule{
			Name:        "syllabus-ai-policy",
			Description: "The Course Policies section includes a policy on generative AI.",
			Header:      textmatch.Once(`(?i)course policies`),
			Body:        textmatch.Once(`(?i)artificial intelligence|generative ai`),
			Insert:      aiPolicy,
			Position:    syllabus.DirectlyAfterHeader,
			BeforeAndAfters: []rule.Example{{
				Bad:  `<div><h2>Course Policies</h2><p>Attendance is expected.</p></div>`,
				Good: `<div><h2>Course Policies</h2>` + aiPolicy + `<p>Attendance is expected.</p></div>`,
			}},
			PositiveExemplars: []string{
				`<div><h2>Course Policies</h2><p>Generative AI use must be cited.</p></div>`,
			},
		}.Rule(),

		syllabus.SectionRule{
			Name:        "syllabus-grade-appeals",
			Description: "A Grade Appeals policy appears ahead of the course schedule.",
			Header:      textmatch.Once(`(?i)course schedule`),
			Body:        textmatch.Once(`(?i)grade appeals?`),
			Insert:      gradeAppeals,
			Position:    syllabus.BeforeHeader(textmatch.Once(`(?i)course schedule`)),
			BeforeAndAfters: []rule.Example{{
				Bad:  `<div><h2>Course Schedule</h2><p>Week 1: Introductions</p></div>`,
				Good: `<div>` + gradeAppeals + `<h2>Course Schedule</h2><p>Week 1: Introductions</p></div>`,
			}},
			PositiveExemplars: []string{
				`<div><h3>Grade Appeals</h3><p>Contact us.</p><h2>Course Schedule</h2></div>`,
			},
		}.Rule(),

		contentrule.TextRule{
			Name:         "syllabus-support-email",
			Description:  "The syllabus points students to the current support address.",
			Topic:        rule.TopicSyllabus,
			Bad:          textmatch.Global(`(?i)helpdesk@oldcampus\.edu`),
			Replace:      textmatch.Template("support@example.edu"),
			SyllabusOnly: true,
			BeforeAndAfters: []rule.Example{{
				Bad:  `<p>Questions? Email helpdesk@oldcampus.edu.</p>`,
				Good: `<p>Questions? Email support@example.edu.</p>`,
			}},
			PositiveExemplars: []string{`<p>Questions? Email support@example.edu.</p>`},
		}.Rule(),
	}
}
