// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package rules

import (
	"github.com/davetashner/coursefix/internal/contentrule"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/syllabus"
	"github.com/davetashner/coursefix/internal/textmatch"
)

const portfolioStatement = `<p>Your capstone portfolio is due in the final week and is reviewed by two faculty members.</p>`

func courseSpecificRules() []rule.Rule {
	return []rule.Rule{
		syllabus.SectionRule{
			Name:        "prof590-capstone-portfolio",
			Description: "The PROF 590 capstone section describes the portfolio review.",
			Topic:       rule.TopicCourseSpecific,
			CourseCodes: []string{"PROF590"},
			Header:      textmatch.Once(`(?i)capstone`),
			Body:        textmatch.Once(`(?i)portfolio`),
			Insert:      portfolioStatement,
			Position:    syllabus.AtEnd,
			BeforeAndAfters: []rule.Example{{
				Bad:  `<div><h2>Capstone Project</h2><p>Choose a topic by week 2.</p></div>`,
				Good: `<div><h2>Capstone Project</h2><p>Choose a topic by week 2.</p>` + portfolioStatement + `</div>`,
			}},
		}.Rule(),

		contentrule.TextRule{
			Name:        "anim301-render-farm-link",
			Description: "ANIM 301 links to the current render farm portal.",
			Topic:       rule.TopicCourseSpecific,
			CourseCodes: []string{"ANIM301"},
			Bad:         textmatch.Global(`https?://renderfarm\.oldcampus\.edu(/[^"\s<]*)?`),
			Replace:     textmatch.Template("https://render.example.edu${1}"),
			BeforeAndAfters: []rule.Example{{
				Bad:  `<a href="http://renderfarm.oldcampus.edu/submit">Submit renders</a>`,
				Good: `<a href="https://render.example.edu/submit">Submit renders</a>`,
			}},
		}.Rule(),
	}
}
