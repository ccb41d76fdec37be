// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package rules

import (
	"regexp"

	"github.com/davetashner/coursefix/internal/contentrule"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/textmatch"
)

// Banner titles live in <div class="... banner-header ...">. The title is the
// first element of the banner and must be an h2; older templates used h1, h3,
// a bare paragraph or strong text. Later elements in the banner are left alone.
var (
	bannerTitleTags = []string{"h1", "h3", "h4", "h5", "h6", "p", "strong"}

	badBannerTitle = textmatch.Global(`(?s)<div[^>]*\bclass="[^"]*\bbanner-header\b[^"]*"[^>]*>\s*<(?:h[13456]|p|strong)\b`)
	bannerTitles   = compileBannerTitles(bannerTitleTags)
)

// compileBannerTitles returns one pattern per tag capturing the banner
// opening, the title attributes and the title content. RE2 has no
// backreferences, so the closing tag is spelled out per pattern.
func compileBannerTitles(tags []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(tags))
	for i, tag := range tags {
		out[i] = regexp.MustCompile(`(?s)(<div[^>]*\bclass="[^"]*\bbanner-header\b[^"]*"[^>]*>\s*)<` +
			tag + `(\s[^>]*)?>(.*?)</` + tag + `>`)
	}
	return out
}

// bannerReplacer rewrites the title element of every banner block to h2.
type bannerReplacer struct{}

func (bannerReplacer) Replace(_ *textmatch.Pattern, text string) string {
	for _, re := range bannerTitles {
		text = re.ReplaceAllString(text, "${1}<h2${2}>${3}</h2>")
	}
	return text
}

func bannerHeadingRule() rule.Rule {
	return contentrule.TextRule{
		Name:        "content-banner-heading",
		Description: "Page banner titles are h2 headings.",
		Topic:       rule.TopicContent,
		Bad:         badBannerTitle,
		Replace:     bannerReplacer{},
		Getter:      contentrule.Pages,
		BeforeAndAfters: []rule.Example{
			{
				Bad:  `<div class="cbt-banner banner-header"><h1>Week 1</h1></div><p>Welcome</p>`,
				Good: `<div class="cbt-banner banner-header"><h2>Week 1</h2></div><p>Welcome</p>`,
			},
			{
				Bad:  "<div class=\"banner-header\">\n  <p class=\"title\">Unit 2</p>\n</div>",
				Good: "<div class=\"banner-header\">\n  <h2 class=\"title\">Unit 2</h2>\n</div>",
			},
			{
				Bad:  `<div class="banner-header"><h1>Week 1</h1><p>Read chapter 2 first.</p></div>`,
				Good: `<div class="banner-header"><h2>Week 1</h2><p>Read chapter 2 first.</p></div>`,
			},
			{
				Bad:  `<div class="banner-header"><strong>Week 1</strong></div>`,
				Good: `<div class="banner-header"><h2>Week 1</h2></div>`,
			},
		},
		PositiveExemplars: []string{
			`<div class="banner-header"><h2>Week 1</h2></div><p>Paragraphs outside banners are fine.</p>`,
		},
	}.Rule()
}
