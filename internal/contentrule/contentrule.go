// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package contentrule builds run and fix functions that look for a bad
// pattern in course content and the syllabus, and replace it.
//
// Every fix re-tests its own output against the bad pattern before it
// persists anything. Items whose replacement still matches are reported as
// "fix broken" and left untouched; the remaining items are still processed.
package contentrule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/textmatch"
)

// ErrFixBroken is reported when a replacement leaves text that still matches
// the bad pattern.
var ErrFixBroken = errors.New("fix broken")

// BadContentRun returns a run function that fails when any content item from
// getter, or the syllabus, matches bad.
func BadContentRun(bad *textmatch.Pattern, getter ContentGetter) rule.RunFunc {
	return func(ctx context.Context, c any, cfg *course.RequestConfig) (result.ValidationResult, error) {
		syl, ok := c.(course.SyllabusHaver)
		if !ok {
			return result.ValidationResult{}, fmt.Errorf("%w: %T does not implement course.SyllabusHaver", rule.ErrMissingCapability, c)
		}
		items, err := fetchItems(ctx, c, getter, cfg)
		if err != nil {
			return result.ValidationResult{}, fmt.Errorf("fetch content: %w", err)
		}
		syllabus, err := syl.GetSyllabus(ctx, cfg)
		if err != nil {
			return result.ValidationResult{}, fmt.Errorf("fetch syllabus: %w", err)
		}

		var (
			messages []result.MessageResult
			links    []string
		)
		for _, item := range matching(items, bad) {
			body, _ := item.Body()
			lines := textmatch.Highlights(body, bad)
			if len(lines) == 0 {
				lines = []string{item.Name()}
			}
			messages = append(messages, result.MessageResult{
				BodyLines: lines,
				Links:     []string{item.HTMLURL()},
			})
			links = append(links, item.HTMLURL())
		}
		syllabusBad := bad.MatchString(syllabus)
		if syllabusBad {
			messages = append(messages, syllabusMessage(syl, syllabus, bad))
		}

		if len(messages) == 0 {
			return result.Passed(fmt.Sprintf("no content matches %s", bad)), nil
		}
		return result.New(result.StatusFailed, result.Options{
			FailureMessage: messages,
			Links:          links,
		}), nil
	}
}

// BadContentFix returns a fix function that applies repl to every content item
// matching bad. When getter is nil the syllabus is fixed as well.
//
// A replacement that still matches is reported and skipped. A failure to save
// any item ends the whole fix with an error result.
func BadContentFix(bad *textmatch.Pattern, repl textmatch.Replacer, getter ContentGetter) rule.FixFunc {
	test := bad.NonGlobal()
	return func(ctx context.Context, c any, _ *result.ValidationResult) (result.ValidationResult, error) {
		items, err := fetchItems(ctx, c, getter, nil)
		if err != nil {
			return result.ValidationResult{}, fmt.Errorf("fetch content: %w", err)
		}
		targets := matching(items, test)

		var (
			messages []result.MessageResult
			links    []string
			success  = true
			touched  = len(targets) > 0
		)

		if getter == nil {
			syl, ok := c.(course.SyllabusHaver)
			if !ok {
				return result.ValidationResult{}, fmt.Errorf("%w: %T does not implement course.SyllabusHaver", rule.ErrMissingCapability, c)
			}
			msg, attempted, err := fixSyllabus(ctx, syl, bad, test, repl)
			switch {
			case errors.Is(err, ErrFixBroken):
				messages = append(messages, result.MessageResult{BodyLines: []string{err.Error()}, Links: msg.Links})
				success = false
			case err != nil:
				return result.ErrorResult(err, course.SyllabusURL(syl)), nil
			case attempted:
				messages = append(messages, msg)
				links = append(links, msg.Links...)
			}
			touched = touched || attempted
		}

		if !touched {
			return result.NotRun(fmt.Sprintf("nothing matched %s; nothing to fix", bad)), nil
		}

		for _, item := range targets {
			body, _ := item.Body()
			fixed := repl.Replace(bad, body)
			if test.MatchString(fixed) {
				messages = append(messages, result.MessageResult{
					BodyLines: []string{fmt.Sprintf("fix broken for %s", item.Name())},
					Links:     []string{item.HTMLURL()},
				})
				success = false
				continue
			}
			if err := item.UpdateContent(ctx, fixed); err != nil {
				return result.ErrorResult(fmt.Errorf("save %s %q: %w", item.Kind(), item.Name(), err), item.HTMLURL()), nil
			}
			slog.Debug("content fixed", "kind", item.Kind(), "id", item.ID(), "pattern", bad.String())
			messages = append(messages, result.MessageResult{
				BodyLines: []string{fmt.Sprintf("fix succeeded for %s", item.Name())},
				Links:     []string{item.HTMLURL()},
			})
			links = append(links, item.HTMLURL())
		}

		return result.New(result.Bool(success), result.Options{
			FailureMessage:    messages,
			NotFailureMessage: messages,
			Links:             links,
		}), nil
	}
}

// BadSyllabusRun returns a run function that fails when the syllabus matches
// bad.
func BadSyllabusRun(bad *textmatch.Pattern) rule.RunFunc {
	return rule.Capable(func(ctx context.Context, c course.SyllabusHaver, cfg *course.RequestConfig) (result.ValidationResult, error) {
		syllabus, err := c.GetSyllabus(ctx, cfg)
		if err != nil {
			return result.ValidationResult{}, fmt.Errorf("fetch syllabus: %w", err)
		}
		if !bad.MatchString(syllabus) {
			return result.Passed(fmt.Sprintf("syllabus does not match %s", bad)), nil
		}
		msg := syllabusMessage(c, syllabus, bad)
		return result.New(result.StatusFailed, result.Options{
			FailureMessage: msg,
			Links:          msg.Links,
		}), nil
	})
}

// BadSyllabusFix returns a fix function that applies repl to the syllabus.
// A replacement that still matches is returned as an error result and nothing
// is saved.
func BadSyllabusFix(bad *textmatch.Pattern, repl textmatch.Replacer) rule.FixFunc {
	test := bad.NonGlobal()
	return rule.CapableFix(func(ctx context.Context, c course.SyllabusHaver, _ *result.ValidationResult) (result.ValidationResult, error) {
		msg, attempted, err := fixSyllabus(ctx, c, bad, test, repl)
		if err != nil {
			return result.ErrorResult(err, course.SyllabusURL(c)), nil
		}
		if !attempted {
			return result.NotRun("syllabus already clean; nothing to fix"), nil
		}
		return result.New(result.StatusPassed, result.Options{
			NotFailureMessage: msg,
			Links:             msg.Links,
		}), nil
	})
}

// fixSyllabus replaces bad in the syllabus and saves it. attempted is false
// when the syllabus did not match. A replacement that still matches returns an
// error wrapping ErrFixBroken without saving.
func fixSyllabus(ctx context.Context, c course.SyllabusHaver, bad, test *textmatch.Pattern, repl textmatch.Replacer) (msg result.MessageResult, attempted bool, err error) {
	link := course.SyllabusURL(c)
	msg.Links = []string{link}

	syllabus, err := c.GetSyllabus(ctx, nil)
	if err != nil {
		return msg, false, fmt.Errorf("fetch syllabus: %w", err)
	}
	if !test.MatchString(syllabus) {
		return msg, false, nil
	}
	fixed := repl.Replace(bad, syllabus)
	if test.MatchString(fixed) {
		return msg, true, fmt.Errorf("%w for syllabus", ErrFixBroken)
	}
	if _, err := c.ChangeSyllabus(ctx, fixed, nil); err != nil {
		return msg, true, fmt.Errorf("save syllabus: %w", err)
	}
	slog.Debug("syllabus fixed", "course", c.ID(), "pattern", bad.String())
	msg.BodyLines = []string{"fix succeeded for syllabus"}
	return msg, true, nil
}

func matching(items []course.ContentItem, p textmatch.Matcher) []course.ContentItem {
	var out []course.ContentItem
	for _, item := range items {
		body, ok := item.Body()
		if ok && p.MatchString(body) {
			out = append(out, item)
		}
	}
	return out
}

func syllabusMessage(c course.Identity, syllabus string, bad *textmatch.Pattern) result.MessageResult {
	lines := append([]string{"syllabus"}, textmatch.Highlights(syllabus, bad)...)
	return result.MessageResult{
		BodyLines: lines,
		Links:     []string{course.SyllabusURL(c)},
	}
}
