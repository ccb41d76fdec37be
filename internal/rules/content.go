// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package rules

import (
	"github.com/davetashner/coursefix/internal/contentrule"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/textmatch"
)

var learningMaterials = textmatch.Global(`(?i)learning materials`)

func contentRules() []rule.Rule {
	return []rule.Rule{
		contentrule.TextRule{
			Name:        "content-library-link",
			Description: "Links to the retired library site point to the current library.",
			Topic:       rule.TopicContent,
			Bad:         textmatch.Global(`https?://library\.oldcampus\.edu/?`),
			Replace:     textmatch.Template("https://library.example.edu/"),
			BeforeAndAfters: []rule.Example{{
				Bad:  `<p>See <a href="http://library.oldcampus.edu/">the library</a>.</p>`,
				Good: `<p>See <a href="https://library.example.edu/">the library</a>.</p>`,
			}},
			PositiveExemplars: []string{`<a href="https://library.example.edu/">library</a>`},
		}.Rule(),

		contentrule.TextRule{
			Name:        "content-course-materials",
			Description: `Content says "course materials" rather than "learning materials".`,
			Topic:       rule.TopicContent,
			Bad:         learningMaterials,
			Replace:     textmatch.PreserveCapsReplace(learningMaterials, "course materials"),
			BeforeAndAfters: []rule.Example{
				{Bad: `<h2>Learning Materials</h2>`, Good: `<h2>Course Materials</h2>`},
				{Bad: `<p>Read the learning materials first.</p>`, Good: `<p>Read the course materials first.</p>`},
				{Bad: `<strong>LEARNING MATERIALS</strong>`, Good: `<strong>COURSE MATERIALS</strong>`},
			},
			PositiveExemplars: []string{`<p>Read the course materials first.</p>`},
		}.Rule(),

		contentrule.TextRule{
			Name:        "content-https-video",
			Description: "Embedded video links use https.",
			Topic:       rule.TopicContent,
			Bad:         textmatch.Global(`http://((?:www\.)?(?:youtube\.com|youtu\.be|vimeo\.com)/)`),
			Replace:     textmatch.Template("https://${1}"),
			BeforeAndAfters: []rule.Example{{
				Bad:  `<iframe src="http://www.youtube.com/embed/abc123"></iframe>`,
				Good: `<iframe src="https://www.youtube.com/embed/abc123"></iframe>`,
			}},
			PositiveExemplars: []string{`<iframe src="https://player.vimeo.com/video/1"></iframe>`},
		}.Rule(),

		bannerHeadingRule(),
		rubricGradingRule(),
	}
}
