// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package textmatch

import "unicode/utf8"

// Default highlight sizing used by the rule adapters.
const (
	DefaultMaxHighlightLength = 100
	DefaultWindowSize         = 30
)

// ellipsis joins the two ends of a collapsed highlight.
const ellipsis = "..."

// Highlights is MatchHighlights with the default sizing.
func Highlights(content string, p *Pattern) []string {
	return MatchHighlights(content, p, DefaultMaxHighlightLength, DefaultWindowSize)
}

// MatchHighlights returns one context window per match of p in content, in
// match order. Each window extends windowSize characters either side of the
// match, clipped to the content. A window longer than maxHighlightLength keeps
// only its first and last maxHighlightLength/2 characters, joined by "...".
//
// Lengths count runes, so multi-byte text is never cut mid-character.
func MatchHighlights(content string, p *Pattern, maxHighlightLength, windowSize int) []string {
	locs := p.FindIndexes(content)
	highlights := make([]string, 0, len(locs))
	for _, loc := range locs {
		start := backRunes(content, loc[0], windowSize)
		end := forwardRunes(content, loc[1], windowSize)
		highlights = append(highlights, collapse(content[start:end], maxHighlightLength))
	}
	return highlights
}

// collapse shortens window to its two ends when it exceeds maxLen runes.
func collapse(window string, maxLen int) string {
	if utf8.RuneCountInString(window) <= maxLen {
		return window
	}
	runes := []rune(window)
	half := maxLen / 2
	return string(runes[:half]) + ellipsis + string(runes[len(runes)-half:])
}

// backRunes moves n runes left of byte offset i, stopping at 0.
func backRunes(s string, i, n int) int {
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return i
}

// forwardRunes moves n runes right of byte offset i, stopping at len(s).
func forwardRunes(s string, i, n int) int {
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}
