// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package textmatch

import (
	"regexp"
	"strings"
)

// Replacer rewrites the matches of a pattern inside a text.
type Replacer interface {
	Replace(p *Pattern, text string) string
}

// Template is a Replacer that substitutes a regexp.Expand template.
type Template string

// Replace implements Replacer.
func (t Template) Replace(p *Pattern, text string) string {
	return p.ReplaceTemplate(text, string(t))
}

// MatchFunc is a Replacer computing each replacement from the matched text.
type MatchFunc func(match string) string

// Replace implements Replacer.
func (f MatchFunc) Replace(p *Pattern, text string) string {
	return p.ReplaceFunc(text, f)
}

var wordStart = regexp.MustCompile(`\b[a-z]`)

// Capitalize upper-cases every lowercase letter that starts a word. Other
// letters are left alone, so "moose MuncH" becomes "Moose MuncH"; this is not
// title case.
func Capitalize(s string) string {
	return wordStart.ReplaceAllStringFunc(s, strings.ToUpper)
}

// PreserveCapsReplace returns a MatchFunc that substitutes template into each
// match and then copies the match's casing style onto the result: an all
// upper-case match yields an upper-cased replacement, an already capitalized
// match yields a capitalized replacement, anything else is left as
// substituted.
//
// Group references in template are expanded before the casing decision, and
// the decision looks at the whole match only. Casing is not tracked per
// capture group.
func PreserveCapsReplace(p *Pattern, template string) MatchFunc {
	return func(match string) string {
		replaced := p.Regexp().ReplaceAllString(match, template)
		switch {
		case strings.ToUpper(match) == match:
			return strings.ToUpper(replaced)
		case Capitalize(match) == match:
			return Capitalize(replaced)
		default:
			return replaced
		}
	}
}
